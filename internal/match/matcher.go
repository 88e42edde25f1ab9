// SPDX-License-Identifier: Apache-2.0

// Package match scores evidence records against requirement catalogs and
// aggregates the per-requirement verdicts into a GO/NO-GO summary.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cirscanproj/cirscan/internal/canon"
	"github.com/cirscanproj/cirscan/internal/catalog"
	"github.com/cirscanproj/cirscan/internal/evidence"
	"github.com/cirscanproj/cirscan/internal/rules"
)

// Matcher classifies requirements against extracted evidence. It holds no
// mutable state; one Matcher may serve concurrent assessments.
type Matcher struct {
	rs *rules.Ruleset
}

// NewMatcher creates a Matcher. A nil rule set selects the default pack.
func NewMatcher(rs *rules.Ruleset) *Matcher {
	if rs == nil {
		rs = rules.Default()
	}
	return &Matcher{rs: rs}
}

// Assess scores rec against every applicable requirement of cat. It never
// fails: an empty or nil catalog yields the no-applicable-requirements
// result (score 100, GO). Requirements restricted to components the record
// never mentions are skipped entirely, not scored.
func (m *Matcher) Assess(rec evidence.Record, cat *catalog.RequirementCatalog) AnalysisResult {
	result := AnalysisResult{
		EvidenceRecord: rec,
		Verdicts:       []Verdict{},
	}
	if cat != nil {
		result.CaseID = cat.CaseID
	}

	blob := searchBlob(rec)

	var weightSum, confSum float64
	counts := map[string]int{}

	if cat != nil {
		for _, req := range cat.Requirements {
			if !applies(req, rec.ComponentsMentioned) {
				continue
			}
			v := m.assessOne(req, blob)
			result.Verdicts = append(result.Verdicts, v)

			w := req.Severity.Weight()
			weightSum += w
			confSum += w * v.Confidence
			counts[v.Status]++
		}
	}

	result.Summary = Summary{
		MetCount:            counts[StatusMet],
		PartialCount:        counts[StatusPartial],
		NotMetCount:         counts[StatusNotMet],
		UnableToVerifyCount: counts[StatusUnableToVerify],
		TotalRequirements:   len(result.Verdicts),
	}
	if weightSum == 0 {
		result.Summary.ComplianceScore = 100
	} else {
		result.Summary.ComplianceScore = canon.Round2(confSum / weightSum)
	}
	if result.Summary.ComplianceScore >= 85 && result.Summary.NotMetCount == 0 {
		result.Summary.GoNoGo = DecisionGo
	} else {
		result.Summary.GoNoGo = DecisionNoGo
	}

	return result
}

// assessOne runs the status/confidence banding for a single requirement.
// The band order and its 0.8 / 0.5 / 0 boundaries are fixed; the arithmetic
// inside each band sets the confidence.
func (m *Matcher) assessOne(req catalog.Requirement, blob string) Verdict {
	v := Verdict{
		RequirementID:    req.ID,
		RequirementTitle: req.Title,
		EvidenceFound:    []string{},
		EvidenceMissing:  []string{},
	}

	if len(req.ExpectedEvidenceKinds) == 0 {
		return m.assessNarrative(req, blob, v)
	}

	for _, kind := range req.ExpectedEvidenceKinds {
		hits := m.locateKind(kind, blob)
		if len(hits) > 0 {
			v.EvidenceFound = append(v.EvidenceFound, hits...)
		} else {
			v.EvidenceMissing = append(v.EvidenceMissing, kind)
		}
	}

	expected := len(req.ExpectedEvidenceKinds)
	located := expected - len(v.EvidenceMissing)
	ratio := float64(located) / float64(expected)

	switch {
	case ratio >= 0.8:
		v.Status = StatusMet
		v.Confidence = canon.Round2(math.Min(100, 80+20*ratio))
		v.Comment = fmt.Sprintf("located %d of %d expected evidence kinds", located, expected)
	case ratio >= 0.5:
		v.Status = StatusPartial
		v.Confidence = canon.Round2(50 + 30*ratio)
		v.Comment = fmt.Sprintf("located %d of %d expected evidence kinds", located, expected)
	case ratio > 0:
		v.Status = StatusNotMet
		v.Confidence = canon.Round2(50 * ratio)
		v.Comment = fmt.Sprintf("located only %d of %d expected evidence kinds", located, expected)
	default:
		if m.descriptionCued(req.Description, blob) {
			v.Status = StatusNotMet
			v.Confidence = 10
			v.Comment = "requirement topic mentioned but no qualifying evidence found"
		} else {
			v.Status = StatusUnableToVerify
			v.Confidence = 30
			v.Comment = "no supporting evidence or related mention found"
		}
	}
	return v
}

// assessNarrative handles requirements that declare no evidence kinds, such
// as procedural steps. They are met when any significant keyword of the
// requirement description appears in the subject text.
func (m *Matcher) assessNarrative(req catalog.Requirement, blob string, v Verdict) Verdict {
	for _, tok := range m.rs.SignificantTokens(req.Description) {
		if rules.HasWordPrefix(blob, tok) {
			v.EvidenceFound = append(v.EvidenceFound, "keyword: "+tok)
		}
	}
	if len(v.EvidenceFound) > 0 {
		v.Status = StatusMet
		v.Confidence = 90
		v.Comment = "requirement cues present in report text"
	} else {
		v.Status = StatusUnableToVerify
		v.Confidence = 30
		v.Comment = "requirement cues absent from report text"
	}
	return v
}

// locateKind collects every cue token and pattern match for one evidence
// kind, prefixed with the kind for traceability.
func (m *Matcher) locateKind(kind, blob string) []string {
	var hits []string
	for _, cue := range m.rs.EvidenceCues[kind] {
		if rules.HasWordPrefix(blob, strings.ToLower(cue)) {
			hits = append(hits, kind+": "+cue)
		}
	}
	for _, re := range m.rs.EvidencePatterns(kind) {
		seen := map[string]bool{}
		for _, match := range re.FindAllString(blob, -1) {
			if seen[match] {
				continue
			}
			seen[match] = true
			hits = append(hits, kind+": "+match)
		}
	}
	return hits
}

func (m *Matcher) descriptionCued(description, blob string) bool {
	for _, tok := range m.rs.SignificantTokens(description) {
		if rules.HasWordPrefix(blob, tok) {
			return true
		}
	}
	return false
}

// applies reports whether a requirement is in scope for the mentioned
// components. An empty restriction applies to everything; otherwise the
// comparison is case-insensitive set intersection.
func applies(req catalog.Requirement, mentioned []string) bool {
	if len(req.ApplicableComponents) == 0 {
		return true
	}
	for _, rc := range req.ApplicableComponents {
		for _, mc := range mentioned {
			if strings.EqualFold(rc, mc) {
				return true
			}
		}
	}
	return false
}

// searchBlob is the lowercased text the matcher scans: the raw text plus
// one "key: value" line per extracted field, keys sorted for determinism.
func searchBlob(rec evidence.Record) string {
	keys := make([]string, 0, len(rec.Fields))
	for k := range rec.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.ToLower(rec.RawText))
	for _, k := range keys {
		b.WriteString("\n")
		b.WriteString(strings.ToLower(k))
		b.WriteString(": ")
		b.WriteString(strings.ToLower(rec.Fields[k]))
	}
	return b.String()
}

