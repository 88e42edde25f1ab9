// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cirscanproj/cirscan/internal/docio"
	"github.com/cirscanproj/cirscan/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess a directory of subject reports against one reference document",
	Long: `Assess every .txt and .md file in a directory against one reference
document (CIM). Subjects are analyzed concurrently; unreadable documents
become failure entries and never abort the batch. Result order follows the
file name order of the input directory.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("subjects", "", "directory of subject reports")
	batchCmd.Flags().String("reference", "", "path to the reference document")
	_ = batchCmd.MarkFlagRequired("subjects")
	_ = batchCmd.MarkFlagRequired("reference")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	subjectsDir, _ := cmd.Flags().GetString("subjects")
	referencePath, _ := cmd.Flags().GetString("reference")

	fsys := afero.NewOsFs()
	referenceText, err := docio.ReadDocument(fsys, referencePath)
	if err != nil {
		return err
	}
	subjects, err := docio.LoadSubjects(fsys, subjectsDir)
	if err != nil {
		return err
	}

	rs, err := loadRuleset()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithLogger(componentLogger("batch"))}
	if w := viper.GetInt("workers"); w > 0 {
		opts = append(opts, pipeline.WithWorkers(w))
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		opts = append(opts, pipeline.WithPerDocumentTimeout(d))
	}

	batch := pipeline.New(rs, opts...).AnalyzeBatch(cmd.Context(), subjects, referenceText)

	if out := viper.GetString("output"); out != "" {
		if err := docio.ExportBatch(fsys, out, batch); err != nil {
			return err
		}
		componentLogger("cli").Info("batch written", "dir", out,
			"succeeded", batch.Statistics.Succeeded, "failed", batch.Statistics.Failed)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(batch)
}
