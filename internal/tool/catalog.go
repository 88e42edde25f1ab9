// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cirscanproj/cirscan/internal/catalog"
)

// MetadataBuildCatalog describes the build_catalog tool.
var MetadataBuildCatalog = &mcp.Tool{
	Name: "build_catalog",
	Description: "Derive a structured requirement catalog from reference/standard text (a CIM). " +
		"Each sentence matching a pattern family becomes one requirement with kind, severity, " +
		"applicable components and expected evidence kinds. Never fails on malformed text; " +
		"text matching no family yields an empty catalog.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"reference_text"},
		"properties": map[string]interface{}{
			"reference_text": map[string]interface{}{
				"type":        "string",
				"description": "Plain text of the reference document",
			},
		},
	},
}

// InputBuildCatalog is the input for the BuildCatalog tool.
type InputBuildCatalog struct {
	ReferenceText string `json:"reference_text"`
}

// OutputBuildCatalog is the output for the BuildCatalog tool.
type OutputBuildCatalog struct {
	// Catalog is the derived requirement set.
	Catalog catalog.RequirementCatalog `json:"catalog"`
	// RequirementCount is the number of requirements mined.
	RequirementCount int `json:"requirement_count"`
	// Digest identifies the catalog content for caching and comparison.
	Digest string `json:"digest"`
}

// BuildCatalog mines requirements from reference text using the default
// rule pack.
func BuildCatalog(_ context.Context, _ *mcp.CallToolRequest, input InputBuildCatalog) (*mcp.CallToolResult, OutputBuildCatalog, error) {
	if input.ReferenceText == "" {
		return nil, OutputBuildCatalog{}, fmt.Errorf("reference_text is required")
	}

	cat := catalog.NewBuilder(nil).Build(input.ReferenceText)
	digest, err := cat.Digest()
	if err != nil {
		return nil, OutputBuildCatalog{}, fmt.Errorf("digest catalog: %w", err)
	}

	return nil, OutputBuildCatalog{
		Catalog:          *cat,
		RequirementCount: len(cat.Requirements),
		Digest:           digest,
	}, nil
}
