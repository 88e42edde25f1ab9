// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cirscanproj/cirscan/internal/rules"
)

// Strategy provenance values recorded in Record.FieldSources.
const (
	sourceKeyValue = "key_value_line"
	sourceLabeled  = "labeled_field"
	sourceSection  = "section_list"
)

// strategy is one independent way of proposing fields from subject text.
type strategy interface {
	Name() string
	Extract(text string, sections []Section) []FieldCandidate
}

// Extractor turns subject text into a Record by running its strategies in
// priority order and merging their candidates: a key set by an earlier
// strategy is never overwritten by a later one.
type Extractor struct {
	rs         *rules.Ruleset
	strategies []strategy
}

// NewExtractor creates an Extractor. A nil rule set selects the default pack.
// Strategy order is the merge priority: explicit key-value lines beat labeled
// fields, which beat section list items.
func NewExtractor(rs *rules.Ruleset) *Extractor {
	if rs == nil {
		rs = rules.Default()
	}
	return &Extractor{
		rs: rs,
		strategies: []strategy{
			keyValueStrategy{rs: rs},
			labeledFieldStrategy{rs: rs},
			sectionListStrategy{rs: rs},
		},
	}
}

// Extract parses subject text into a Record. It never fails: text that
// matches no pattern family yields a Record with empty fields. Running it
// twice on the same text returns equal records.
func (e *Extractor) Extract(subjectText string) Record {
	text := rules.NormalizeText(subjectText)
	rec := Record{
		Fields:              map[string]string{},
		FieldSources:        map[string]string{},
		RawText:             text,
		ComponentsMentioned: []string{},
	}
	if text == "" {
		return rec
	}

	if comps := e.rs.ComponentsIn(text); comps != nil {
		rec.ComponentsMentioned = comps
	}

	sections := splitSections(text)
	for _, s := range e.strategies {
		for _, c := range s.Extract(text, sections) {
			key := e.canonicalKey(c.Key)
			value := strings.TrimSpace(c.Value)
			if key == "" || value == "" {
				continue
			}
			if _, taken := rec.Fields[key]; taken {
				continue
			}
			rec.Fields[key] = e.normalizeValue(key, value)
			rec.FieldSources[key] = c.Source
		}
	}
	return rec
}

// StrategyNames returns the registered strategies in priority order.
func (e *Extractor) StrategyNames() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// canonicalKey collapses whitespace and resolves the key through the alias
// table, then case-insensitively against the pack's field rule keys. Keys
// known to neither keep their original casing.
func (e *Extractor) canonicalKey(key string) string {
	key = collapseSpaces(strings.TrimSpace(key))
	lower := strings.ToLower(key)
	if canonical, ok := e.rs.Aliases[lower]; ok {
		return canonical
	}
	for _, fr := range e.rs.Fields {
		if strings.ToLower(fr.Key) == lower {
			return fr.Key
		}
	}
	return key
}

// normalizeValue canonicalizes date-keyed values to YYYY-MM-DD when the
// value is a recognizable date; anything else passes through untouched.
func (e *Extractor) normalizeValue(key, value string) string {
	if strings.Contains(strings.ToLower(key), "date") {
		if iso, ok := CanonicalDate(value); ok {
			return iso
		}
	}
	return value
}

// ---------------------------------------------------------------------------
// strategies
// ---------------------------------------------------------------------------

var keyValueLineRe = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 _/().-]{0,59})\s*:\s*(.+)$`)

// Values opening like prose are narrative sentences that happen to follow a
// colon, not field values.
var narrativeStarts = []string{"the ", "this ", "that ", "these "}

// keyValueStrategy reads explicit "Key: Value" lines.
type keyValueStrategy struct {
	rs *rules.Ruleset
}

func (s keyValueStrategy) Name() string { return sourceKeyValue }

func (s keyValueStrategy) Extract(text string, _ []Section) []FieldCandidate {
	var out []FieldCandidate
	for _, line := range strings.Split(text, "\n") {
		m := keyValueLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := collapseSpaces(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if !plausibleKey(key) || !plausibleValue(value) {
			continue
		}
		out = append(out, FieldCandidate{Key: key, Value: value, Source: sourceKeyValue})
	}
	return out
}

func plausibleKey(key string) bool {
	return len(key) >= 2 && len(strings.Fields(key)) <= 6
}

func plausibleValue(value string) bool {
	if len(value) < 2 || len(value) > 200 {
		return false
	}
	lower := strings.ToLower(value)
	for _, p := range narrativeStarts {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	return true
}

// labeledFieldStrategy applies the pack's field rules anywhere in the text,
// not just on key-value lines. Rules are evaluated in pack order; the first
// match per rule wins.
type labeledFieldStrategy struct {
	rs *rules.Ruleset
}

func (s labeledFieldStrategy) Name() string { return sourceLabeled }

func (s labeledFieldStrategy) Extract(text string, _ []Section) []FieldCandidate {
	var out []FieldCandidate
	for _, fr := range s.rs.Fields {
		v, ok := fr.FindValue(text)
		if !ok {
			continue
		}
		if fr.Date {
			v, _ = CanonicalDate(v)
		}
		out = append(out, FieldCandidate{Key: fr.Key, Value: v, Source: sourceLabeled})
	}
	return out
}

var bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d{1,2}[.)])\s+(.+)$`)

// sectionListStrategy collects list items under known section headers,
// numbering them per header ("Findings 1", "Findings 2", ...).
type sectionListStrategy struct {
	rs *rules.Ruleset
}

func (s sectionListStrategy) Name() string { return sourceSection }

func (s sectionListStrategy) Extract(_ string, sections []Section) []FieldCandidate {
	var out []FieldCandidate
	counters := make(map[string]int)
	for _, sec := range sections {
		header, ok := s.knownHeader(sec.Heading)
		if !ok {
			continue
		}
		for _, line := range sec.Lines {
			m := bulletRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			item := strings.TrimSpace(m[1])
			if item == "" {
				continue
			}
			counters[header]++
			out = append(out, FieldCandidate{
				Key:    fmt.Sprintf("%s %d", titleWords(header), counters[header]),
				Value:  item,
				Source: sourceSection,
			})
		}
	}
	return out
}

func (s sectionListStrategy) knownHeader(heading string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(heading))
	if lower == "" {
		return "", false
	}
	for _, known := range s.rs.SectionHeaders {
		if strings.Contains(lower, known) {
			return known, true
		}
	}
	return "", false
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
