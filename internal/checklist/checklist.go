// SPDX-License-Identifier: Apache-2.0

// Package checklist audits evidence records for report completeness. It is
// independent of any requirement catalog: a report can be complete yet
// non-compliant, and compliant yet incomplete.
package checklist

import (
	"fmt"
	"strings"

	"github.com/cirscanproj/cirscan/internal/canon"
	"github.com/cirscanproj/cirscan/internal/evidence"
	"github.com/cirscanproj/cirscan/internal/rules"
)

// Completeness decisions.
const (
	DecisionGo            = "GO"
	DecisionNoGo          = "NO_GO"
	DecisionPendingReview = "PENDING_REVIEW"
)

// Level grades how hard a failed check blocks release of a report.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
	LevelInfo     Level = "info"
)

// Issue is one failed completeness check.
type Issue struct {
	ID      string `json:"id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Report is the outcome of a completeness audit.
type Report struct {
	Score         float64  `json:"score"`
	Decision      string   `json:"decision"`
	ChecksPassed  int      `json:"checks_passed"`
	ChecksTotal   int      `json:"checks_total"`
	ChecksApplied []string `json:"checks_applied"`
	Issues        []Issue  `json:"issues"`
}

type check struct {
	name    string
	level   Level
	message string
	passed  func(c *Checker, rec evidence.Record, blob string) bool
}

// Checker runs a fixed battery of completeness checks. Check order never
// changes; issue IDs are assigned from it.
type Checker struct {
	rs     *rules.Ruleset
	checks []check
}

// NewChecker creates a Checker. A nil rule set selects the default pack.
func NewChecker(rs *rules.Ruleset) *Checker {
	if rs == nil {
		rs = rules.Default()
	}
	return &Checker{rs: rs, checks: []check{
		{
			name:    "turbine_identity",
			level:   LevelCritical,
			message: "turbine identity missing: no Turbine ID or Serial Number",
			passed: func(_ *Checker, rec evidence.Record, _ string) bool {
				return hasField(rec, "Turbine ID") || hasField(rec, "Serial Number")
			},
		},
		{
			name:    "component_identified",
			level:   LevelHigh,
			message: "serviced component not identified",
			passed: func(_ *Checker, rec evidence.Record, _ string) bool {
				return hasField(rec, "Component Type") || len(rec.ComponentsMentioned) > 0
			},
		},
		{
			name:    "service_date",
			level:   LevelHigh,
			message: "service date missing or not recognizable",
			passed: func(_ *Checker, rec evidence.Record, _ string) bool {
				v, ok := rec.Fields["Service Date"]
				if !ok {
					return false
				}
				_, ok = evidence.CanonicalDate(v)
				return ok
			},
		},
		{
			name:    "technician_recorded",
			level:   LevelMedium,
			message: "technician not recorded",
			passed: func(_ *Checker, rec evidence.Record, _ string) bool {
				return hasField(rec, "Technician")
			},
		},
		{
			name:    "sign_off_present",
			level:   LevelCritical,
			message: "approval or sign-off missing",
			passed: func(c *Checker, _ evidence.Record, blob string) bool {
				return c.anyCue("signature", blob)
			},
		},
		{
			name:    "case_reference",
			level:   LevelMedium,
			message: "no case or work order reference",
			passed: func(c *Checker, rec evidence.Record, _ string) bool {
				return hasField(rec, "Work Order") || c.rs.CaseID(rec.RawText) != ""
			},
		},
		{
			name:    "minimum_length",
			level:   LevelMedium,
			message: "report text too short to audit",
			passed: func(_ *Checker, rec evidence.Record, _ string) bool {
				return len(rec.RawText) >= 200
			},
		},
		{
			name:    "work_narrative",
			level:   LevelLow,
			message: "no work narrative cues found",
			passed: func(c *Checker, _ evidence.Record, blob string) bool {
				return c.anyCue("narrative", blob)
			},
		},
	}}
}

// Run audits one evidence record. The score is the passed fraction in
// percent. Any failed critical check forces NO_GO; otherwise a score of 85
// or better is GO and everything below is PENDING_REVIEW.
func (c *Checker) Run(rec evidence.Record) Report {
	blob := completenessBlob(rec)

	report := Report{
		ChecksTotal:   len(c.checks),
		ChecksApplied: make([]string, 0, len(c.checks)),
		Issues:        []Issue{},
	}
	criticalFailed := false
	for i, chk := range c.checks {
		report.ChecksApplied = append(report.ChecksApplied, chk.name)
		if chk.passed(c, rec, blob) {
			report.ChecksPassed++
			continue
		}
		report.Issues = append(report.Issues, Issue{
			ID:      fmt.Sprintf("CHK-%03d", i+1),
			Level:   chk.level,
			Message: chk.message,
		})
		if chk.level == LevelCritical {
			criticalFailed = true
		}
	}

	report.Score = canon.Round2(float64(report.ChecksPassed) / float64(report.ChecksTotal) * 100)
	switch {
	case criticalFailed:
		report.Decision = DecisionNoGo
	case report.Score >= 85:
		report.Decision = DecisionGo
	default:
		report.Decision = DecisionPendingReview
	}
	return report
}

func (c *Checker) anyCue(kind, blob string) bool {
	for _, cue := range c.rs.EvidenceCues[kind] {
		if rules.HasWordPrefix(blob, strings.ToLower(cue)) {
			return true
		}
	}
	return false
}

func hasField(rec evidence.Record, key string) bool {
	_, ok := rec.Fields[key]
	return ok
}

func completenessBlob(rec evidence.Record) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(rec.RawText))
	for k, v := range rec.Fields {
		b.WriteString("\n")
		b.WriteString(strings.ToLower(k))
		b.WriteString(": ")
		b.WriteString(strings.ToLower(v))
	}
	return b.String()
}
