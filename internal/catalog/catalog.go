// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"

	"github.com/cirscanproj/cirscan/internal/canon"
	"github.com/cirscanproj/cirscan/internal/rules"
)

// Kind classifies what a requirement demands of the subject document.
type Kind string

const (
	KindTestMethod         Kind = "test_method"
	KindDocumentation      Kind = "documentation"
	KindVisualInspection   Kind = "visual_inspection"
	KindProcedural         Kind = "procedural"
	KindAcceptanceStandard Kind = "acceptance_standard"
	KindWorkInstruction    Kind = "work_instruction"
)

// Severity grades a requirement by the strength of its lexical obligation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight is the aggregation weight of the severity.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// Requirement is one compliance obligation derived from reference text.
// IDs are assigned in extraction order and never change afterwards.
type Requirement struct {
	ID                    string   `json:"id"`
	Title                 string   `json:"title"`
	Kind                  Kind     `json:"kind"`
	Description           string   `json:"description"`
	Severity              Severity `json:"severity"`
	ApplicableComponents  []string `json:"applicable_components"`
	ExpectedEvidenceKinds []string `json:"expected_evidence_kinds"`
}

// RequirementCatalog is the immutable extraction result for one reference
// document. Consumers treat it as read-only.
type RequirementCatalog struct {
	CaseID             string        `json:"case_id,omitempty"`
	Requirements       []Requirement `json:"requirements"`
	AffectedComponents []string      `json:"affected_components,omitempty"`
	FailureModes       []string      `json:"failure_modes,omitempty"`
}

// Digest returns the canonical content digest of the catalog.
func (c *RequirementCatalog) Digest() (string, error) {
	return canon.Digest(c)
}

// Builder derives requirement catalogs from reference text using the mining
// rules of one rule set.
type Builder struct {
	rs *rules.Ruleset
}

// NewBuilder creates a Builder. A nil rule set selects the default pack.
func NewBuilder(rs *rules.Ruleset) *Builder {
	if rs == nil {
		rs = rules.Default()
	}
	return &Builder{rs: rs}
}

// Build parses reference text into a catalog. It never fails: malformed or
// empty input yields a catalog with zero requirements. A sentence matched by
// several rule families yields one requirement per family.
func (b *Builder) Build(referenceText string) *RequirementCatalog {
	text := rules.NormalizeText(referenceText)

	cat := &RequirementCatalog{
		Requirements: []Requirement{},
	}
	if text == "" {
		return cat
	}

	cat.CaseID = b.rs.CaseID(text)
	cat.AffectedComponents = b.rs.ComponentsIn(text)
	cat.FailureModes = b.rs.FailureModesIn(text)

	counters := make(map[string]int)
	for _, sentence := range rules.Sentences(text) {
		for _, rule := range b.rs.Mining {
			if !rule.Matches(sentence) {
				continue
			}
			counters[rule.IDPrefix]++
			cat.Requirements = append(cat.Requirements, Requirement{
				ID:                    fmt.Sprintf("%s-%03d", rule.IDPrefix, counters[rule.IDPrefix]),
				Title:                 titleFrom(sentence),
				Kind:                  Kind(rule.Kind),
				Description:           sentence,
				Severity:              b.severityOf(sentence),
				ApplicableComponents:  emptyNotNil(b.rs.ComponentsIn(sentence)),
				ExpectedEvidenceKinds: emptyNotNil(rule.EvidenceKinds),
			})
		}
	}
	return cat
}

func (b *Builder) severityOf(sentence string) Severity {
	lower := strings.ToLower(sentence)
	for _, cue := range b.rs.SeverityHigh {
		if strings.Contains(lower, cue) {
			return SeverityHigh
		}
	}
	for _, cue := range b.rs.SeverityMedium {
		if strings.Contains(lower, cue) {
			return SeverityMedium
		}
	}
	return SeverityLow
}

// titleFrom shortens a sentence to a label of at most eight words.
func titleFrom(sentence string) string {
	words := strings.Fields(sentence)
	if len(words) > 8 {
		return strings.Join(words[:8], " ") + " ..."
	}
	return strings.TrimRight(sentence, ".:;,")
}

func emptyNotNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
