// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cirscanproj/cirscan/internal/checklist"
	"github.com/cirscanproj/cirscan/internal/evidence"
)

// MetadataValidateDocument describes the validate_document tool.
var MetadataValidateDocument = &mcp.Tool{
	Name: "validate_document",
	Description: "Audit a subject report (CIR) for completeness without any reference document: " +
		"turbine identity, component, service date, technician, sign-off, case reference, " +
		"minimum length and work narrative. Failed critical checks force NO_GO; otherwise the " +
		"passed fraction decides between GO and PENDING_REVIEW.",
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

// InputValidateDocument is the input for the ValidateDocument tool.
type InputValidateDocument struct {
	SubjectText string `json:"subject_text"`
}

// OutputValidateDocument is the output for the ValidateDocument tool.
type OutputValidateDocument struct {
	// Report is the completeness audit outcome.
	Report checklist.Report `json:"report"`
	// FieldCount is the number of fields extracted before auditing.
	FieldCount int `json:"field_count"`
}

// ValidateDocument extracts an evidence record and audits it for report
// completeness.
func ValidateDocument(_ context.Context, _ *mcp.CallToolRequest, input InputValidateDocument) (*mcp.CallToolResult, OutputValidateDocument, error) {
	if input.SubjectText == "" {
		return nil, OutputValidateDocument{}, fmt.Errorf("subject_text is required")
	}

	rec := evidence.NewExtractor(nil).Extract(input.SubjectText)
	report := checklist.NewChecker(nil).Run(rec)

	return nil, OutputValidateDocument{
		Report:     report,
		FieldCount: len(rec.Fields),
	}, nil
}
