// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cirscanproj/cirscan/internal/catalog"
	"github.com/cirscanproj/cirscan/internal/match"
	"github.com/cirscanproj/cirscan/internal/pipeline"
)

// MetadataAnalyzeCompliance describes the analyze_compliance tool.
var MetadataAnalyzeCompliance = &mcp.Tool{
	Name: "analyze_compliance",
	Description: "Assess a subject report (CIR) against a reference/standard document (CIM). " +
		"Builds the requirement catalog, extracts the evidence record, scores every applicable " +
		"requirement into a met/partial/not_met/unable_to_verify verdict with confidence, and " +
		"aggregates a severity-weighted compliance score with a GO/NO_GO decision. " +
		"When no reference text is available, use_fallback_catalog applies the built-in " +
		"baseline service standards instead.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"subject_text"},
		"properties": map[string]interface{}{
			"subject_text": map[string]interface{}{
				"type":        "string",
				"description": "Plain text of the subject report",
			},
			"reference_text": map[string]interface{}{
				"type":        "string",
				"description": "Plain text of the reference document. Required unless use_fallback_catalog is true.",
			},
			"use_fallback_catalog": map[string]interface{}{
				"type":        "boolean",
				"description": "Assess against the built-in baseline catalog when no reference text is given.",
			},
		},
	},
}

// InputAnalyzeCompliance is the input for the AnalyzeCompliance tool.
type InputAnalyzeCompliance struct {
	SubjectText        string `json:"subject_text"`
	ReferenceText      string `json:"reference_text"`
	UseFallbackCatalog bool   `json:"use_fallback_catalog"`
}

// OutputAnalyzeCompliance is the output for the AnalyzeCompliance tool.
type OutputAnalyzeCompliance struct {
	// Result is the full analysis: evidence record, verdicts and summary.
	Result match.AnalysisResult `json:"result"`
	// Digest identifies the result content; identical inputs give
	// identical digests.
	Digest string `json:"digest"`
}

// AnalyzeCompliance runs the full extraction-and-matching pipeline for one
// subject/reference pair.
func AnalyzeCompliance(_ context.Context, _ *mcp.CallToolRequest, input InputAnalyzeCompliance) (*mcp.CallToolResult, OutputAnalyzeCompliance, error) {
	if input.SubjectText == "" {
		return nil, OutputAnalyzeCompliance{}, fmt.Errorf("subject_text is required")
	}
	if input.ReferenceText == "" && !input.UseFallbackCatalog {
		return nil, OutputAnalyzeCompliance{}, fmt.Errorf("reference_text is required unless use_fallback_catalog is set")
	}

	p := pipeline.New(nil)
	var res match.AnalysisResult
	if input.ReferenceText != "" {
		res = p.AnalyzePair(input.SubjectText, input.ReferenceText)
	} else {
		res = p.Analyze(input.SubjectText, catalog.Default())
	}

	digest, err := res.Digest()
	if err != nil {
		return nil, OutputAnalyzeCompliance{}, fmt.Errorf("digest result: %w", err)
	}

	return nil, OutputAnalyzeCompliance{Result: res, Digest: digest}, nil
}
