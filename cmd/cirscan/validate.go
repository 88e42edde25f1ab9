// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cirscanproj/cirscan/internal/checklist"
	"github.com/cirscanproj/cirscan/internal/docio"
	"github.com/cirscanproj/cirscan/internal/evidence"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit one subject report for completeness",
	Long: `Audit one subject report (CIR) for completeness without any reference
document: identity fields, service date, sign-off, case reference and work
narrative. A report can be complete yet non-compliant, and compliant yet
incomplete.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().String("subject", "", "path to the subject report (.txt or .md)")
	_ = validateCmd.MarkFlagRequired("subject")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	subjectPath, _ := cmd.Flags().GetString("subject")

	fsys := afero.NewOsFs()
	subjectText, err := docio.ReadDocument(fsys, subjectPath)
	if err != nil {
		return err
	}

	rs, err := loadRuleset()
	if err != nil {
		return err
	}

	rec := evidence.NewExtractor(rs).Extract(subjectText)
	report := checklist.NewChecker(rs).Run(rec)

	return emitResult(fsys, report)
}
