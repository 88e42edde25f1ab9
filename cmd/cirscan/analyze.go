// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cirscanproj/cirscan/internal/catalog"
	"github.com/cirscanproj/cirscan/internal/docio"
	"github.com/cirscanproj/cirscan/internal/match"
	"github.com/cirscanproj/cirscan/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Assess one subject report against a reference document",
	Long: `Assess one subject report (CIR) against one reference document (CIM).

With --fallback and no --reference, the report is assessed against the
built-in baseline service standards instead.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("subject", "", "path to the subject report (.txt or .md)")
	analyzeCmd.Flags().String("reference", "", "path to the reference document")
	analyzeCmd.Flags().Bool("fallback", false, "use the built-in baseline catalog when no reference is given")
	_ = analyzeCmd.MarkFlagRequired("subject")
	_ = viper.BindPFlag("fallback", analyzeCmd.Flags().Lookup("fallback"))

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	subjectPath, _ := cmd.Flags().GetString("subject")
	referencePath, _ := cmd.Flags().GetString("reference")

	fsys := afero.NewOsFs()
	subjectText, err := docio.ReadDocument(fsys, subjectPath)
	if err != nil {
		return err
	}

	rs, err := loadRuleset()
	if err != nil {
		return err
	}
	p := pipeline.New(rs, pipeline.WithLogger(componentLogger("pipeline")))

	var res match.AnalysisResult
	switch {
	case referencePath != "":
		referenceText, err := docio.ReadDocument(fsys, referencePath)
		if err != nil {
			return err
		}
		res = p.AnalyzePair(subjectText, referenceText)
	case viper.GetBool("fallback"):
		res = p.Analyze(subjectText, catalog.Default())
	default:
		return fmt.Errorf("either --reference or --fallback is required")
	}

	return emitResult(fsys, res)
}
