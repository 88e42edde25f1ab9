// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cirscanproj/cirscan/internal/evidence"
)

// MetadataExtractEvidence describes the extract_evidence tool.
var MetadataExtractEvidence = &mcp.Tool{
	Name: "extract_evidence",
	Description: "Extract a schema-less evidence record from subject report text (a CIR). " +
		"Three strategies run in priority order: explicit key-value lines, labeled field " +
		"patterns, then list items under known section headers. Field provenance names the " +
		"strategy that produced each field. Extraction never fails; unrecognized text yields " +
		"an empty record.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"subject_text"},
		"properties": map[string]interface{}{
			"subject_text": map[string]interface{}{
				"type":        "string",
				"description": "Plain text of the subject report",
			},
		},
	},
}

// InputExtractEvidence is the input for the ExtractEvidence tool.
type InputExtractEvidence struct {
	SubjectText string `json:"subject_text"`
}

// OutputExtractEvidence is the output for the ExtractEvidence tool.
type OutputExtractEvidence struct {
	// Record is the extracted evidence record.
	Record evidence.Record `json:"record"`
	// FieldCount is the number of fields extracted.
	FieldCount int `json:"field_count"`
	// Strategies lists the extraction strategies in priority order.
	Strategies []string `json:"strategies"`
}

// ExtractEvidence parses subject text into an evidence record using the
// default rule pack.
func ExtractEvidence(_ context.Context, _ *mcp.CallToolRequest, input InputExtractEvidence) (*mcp.CallToolResult, OutputExtractEvidence, error) {
	if input.SubjectText == "" {
		return nil, OutputExtractEvidence{}, fmt.Errorf("subject_text is required")
	}

	ex := evidence.NewExtractor(nil)
	rec := ex.Extract(input.SubjectText)

	return nil, OutputExtractEvidence{
		Record:     rec,
		FieldCount: len(rec.Fields),
		Strategies: ex.StrategyNames(),
	}, nil
}
