// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/cirscanproj/cirscan/internal/tool"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analysis tools over stdio",
	Long: `Start a Model Context Protocol server exposing build_catalog,
extract_evidence, analyze_compliance and validate_document over stdin/stdout.
Stdout carries the protocol stream; logs go to stderr. The server runs until
the client disconnects.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		componentLogger("mcp").Info("mcp server starting", "version", version)
		return tool.Run(cmd.Context(), version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
