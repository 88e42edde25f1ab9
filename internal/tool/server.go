// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer assembles the MCP server with every tool registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cirscan",
		Version: version,
	}, nil)

	mcp.AddTool(server, MetadataBuildCatalog, BuildCatalog)
	mcp.AddTool(server, MetadataExtractEvidence, ExtractEvidence)
	mcp.AddTool(server, MetadataAnalyzeCompliance, AnalyzeCompliance)
	mcp.AddTool(server, MetadataValidateDocument, ValidateDocument)

	return server
}

// Run serves the tool set over stdin/stdout until the context is canceled
// or the client disconnects.
func Run(ctx context.Context, version string) error {
	return NewServer(version).Run(ctx, &mcp.StdioTransport{})
}
