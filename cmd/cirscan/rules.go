// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cirscanproj/cirscan/internal/evidence"
	"github.com/cirscanproj/cirscan/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect or validate rule packs",
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a summary of the active rule pack",
	RunE:  runRulesShow,
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate <pack.yaml>",
	Short: "Validate a rule pack file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesValidate,
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd, rulesValidateCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesShow(_ *cobra.Command, _ []string) error {
	rs, err := loadRuleset()
	if err != nil {
		return err
	}

	summary := map[string]interface{}{
		"version":               rs.Version,
		"mining_rules":          len(rs.Mining),
		"field_rules":           len(rs.Fields),
		"aliases":               len(rs.Aliases),
		"evidence_kinds":        len(rs.EvidenceCues),
		"components":            len(rs.Components),
		"failure_modes":         len(rs.FailureModes),
		"section_headers":       len(rs.SectionHeaders),
		"extraction_strategies": evidence.NewExtractor(rs).StrategyNames(),
	}
	return emitResult(afero.NewOsFs(), summary)
}

func runRulesValidate(_ *cobra.Command, args []string) error {
	rs, err := rules.LoadPack(afero.NewOsFs(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "rule pack %s is valid (version %s)\n", args[0], rs.Version)
	return nil
}
