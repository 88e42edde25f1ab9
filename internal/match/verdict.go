// SPDX-License-Identifier: Apache-2.0

package match

import (
	"github.com/cirscanproj/cirscan/internal/canon"
	"github.com/cirscanproj/cirscan/internal/evidence"
)

// Verdict statuses. Status and Confidence are always set together by one
// deterministic banding rule, never independently.
const (
	StatusMet            = "met"
	StatusPartial        = "partial"
	StatusNotMet         = "not_met"
	StatusUnableToVerify = "unable_to_verify"
)

// Aggregate decisions.
const (
	DecisionGo   = "GO"
	DecisionNoGo = "NO_GO"
)

// Verdict is the compliance classification of one requirement against one
// evidence record.
type Verdict struct {
	RequirementID    string   `json:"requirement_id"`
	RequirementTitle string   `json:"requirement_title"`
	Status           string   `json:"status"`
	Confidence       float64  `json:"confidence"`
	EvidenceFound    []string `json:"evidence_found"`
	EvidenceMissing  []string `json:"evidence_missing"`
	Comment          string   `json:"comment"`
}

// Summary aggregates the verdicts of one analysis. ComplianceScore is the
// severity-weighted mean confidence over applicable requirements; GoNoGo is
// GO iff the score is at least 85 and no verdict is not_met.
type Summary struct {
	ComplianceScore     float64 `json:"compliance_score"`
	GoNoGo              string  `json:"go_nogo"`
	MetCount            int     `json:"met_count"`
	PartialCount        int     `json:"partial_count"`
	NotMetCount         int     `json:"not_met_count"`
	UnableToVerifyCount int     `json:"unable_to_verify_count"`
	TotalRequirements   int     `json:"total_requirements"`
}

// AnalysisResult is the full outcome of assessing one subject document
// against one requirement catalog. Verdicts keep catalog order and cover
// only applicable requirements.
type AnalysisResult struct {
	CaseID         string          `json:"case_id,omitempty"`
	EvidenceRecord evidence.Record `json:"evidence_record"`
	Verdicts       []Verdict       `json:"verdicts"`
	Summary        Summary         `json:"summary"`
}

// Digest returns the canonical content digest of the result.
func (r *AnalysisResult) Digest() (string, error) {
	return canon.Digest(r)
}
