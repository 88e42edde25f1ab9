// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// MiningRule is the compiled form of a MiningRuleSpec.
type MiningRule struct {
	Kind          string
	IDPrefix      string
	EvidenceKinds []string

	patterns []*regexp.Regexp
}

// Matches reports whether any of the rule's patterns match the sentence.
func (r MiningRule) Matches(sentence string) bool {
	for _, re := range r.patterns {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

// FieldRule is the compiled form of a FieldRuleSpec.
type FieldRule struct {
	Key  string
	Date bool

	re *regexp.Regexp
}

// FindValue returns the first captured value for the rule in text.
func (r FieldRule) FindValue(text string) (string, bool) {
	m := r.re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", false
	}
	return v, true
}

// Ruleset is a compiled rule pack. It is immutable after Compile and safe for
// concurrent use.
type Ruleset struct {
	Version        string
	Mining         []MiningRule
	Fields         []FieldRule
	Aliases        map[string]string
	EvidenceCues   map[string][]string
	SeverityHigh   []string
	SeverityMedium []string
	Components     []string
	FailureModes   []string
	SectionHeaders []string

	stopwords        map[string]struct{}
	evidencePatterns map[string][]*regexp.Regexp
	caseIDRes        []*regexp.Regexp
	failureCueRes    []*regexp.Regexp
	componentRes     []termMatcher
	failureModeRes   []termMatcher
}

// termMatcher pairs a gazetteer term with its compiled matcher. The matcher
// tolerates a plural suffix so "bolts" still reports the canonical "bolt".
type termMatcher struct {
	term string
	re   *regexp.Regexp
}

func newTermMatcher(term string) termMatcher {
	return termMatcher{
		term: term,
		re:   regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `(?:s|es)?\b`),
	}
}

// Compile validates every pattern in the pack and returns the executable
// rule set. A pack with an uncompilable pattern is rejected whole.
func (p Pack) Compile() (*Ruleset, error) {
	rs := &Ruleset{
		Version:          p.Version,
		Aliases:          make(map[string]string, len(p.Aliases)),
		EvidenceCues:     make(map[string][]string, len(p.EvidenceCues)),
		SeverityHigh:     lowerAll(p.SeverityCues.High),
		SeverityMedium:   lowerAll(p.SeverityCues.Medium),
		Components:       lowerAll(p.Components),
		FailureModes:     lowerAll(p.FailureModes),
		SectionHeaders:   lowerAll(p.SectionHeaders),
		stopwords:        make(map[string]struct{}, len(p.Stopwords)),
		evidencePatterns: make(map[string][]*regexp.Regexp, len(p.EvidencePatterns)),
	}

	for _, spec := range p.Mining {
		rule := MiningRule{
			Kind:          spec.Kind,
			IDPrefix:      spec.IDPrefix,
			EvidenceKinds: append([]string(nil), spec.EvidenceKinds...),
		}
		for _, pat := range spec.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("mining rule %q: bad pattern %q: %w", spec.Kind, pat, err)
			}
			rule.patterns = append(rule.patterns, re)
		}
		rs.Mining = append(rs.Mining, rule)
	}

	for _, spec := range p.Fields {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field rule %q: bad pattern %q: %w", spec.Key, spec.Pattern, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("field rule %q: pattern %q has no capture group", spec.Key, spec.Pattern)
		}
		rs.Fields = append(rs.Fields, FieldRule{Key: spec.Key, Date: spec.Date, re: re})
	}

	for alias, canonical := range p.Aliases {
		rs.Aliases[strings.ToLower(strings.TrimSpace(alias))] = canonical
	}
	for kind, cues := range p.EvidenceCues {
		rs.EvidenceCues[kind] = lowerAll(cues)
	}
	for kind, pats := range p.EvidencePatterns {
		for _, pat := range pats {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("evidence pattern for kind %q: bad pattern %q: %w", kind, pat, err)
			}
			rs.evidencePatterns[kind] = append(rs.evidencePatterns[kind], re)
		}
	}
	for _, w := range p.Stopwords {
		rs.stopwords[strings.ToLower(w)] = struct{}{}
	}

	for _, pat := range p.CaseIDPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("case id pattern %q: %w", pat, err)
		}
		rs.caseIDRes = append(rs.caseIDRes, re)
	}
	for _, pat := range p.FailureCuePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("failure cue pattern %q: %w", pat, err)
		}
		rs.failureCueRes = append(rs.failureCueRes, re)
	}

	for _, term := range rs.Components {
		rs.componentRes = append(rs.componentRes, newTermMatcher(term))
	}
	for _, term := range rs.FailureModes {
		rs.failureModeRes = append(rs.failureModeRes, newTermMatcher(term))
	}
	return rs, nil
}

// CaseID returns the first document identifier located in text, or "".
// Patterns are tried in pack order; the first match wins.
func (rs *Ruleset) CaseID(text string) string {
	for _, re := range rs.caseIDRes {
		if m := re.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

// ComponentsIn returns the gazetteer components mentioned in text, unique,
// sorted, first letter capitalized.
func (rs *Ruleset) ComponentsIn(text string) []string {
	lower := strings.ToLower(text)
	var names []string
	for _, tm := range rs.componentRes {
		if tm.re.MatchString(lower) {
			names = append(names, capitalize(tm.term))
		}
	}
	return uniqueSorted(names)
}

// FailureModesIn returns failure-mode terms found in text plus any cue-phrase
// captures ("failure mode: ...", "root cause: ..."), unique and sorted.
func (rs *Ruleset) FailureModesIn(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, tm := range rs.failureModeRes {
		if tm.re.MatchString(lower) {
			found = append(found, tm.term)
		}
	}
	for _, re := range rs.failureCueRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) > 1 {
				capture := strings.ToLower(strings.TrimRight(strings.TrimSpace(m[1]), ".,;:"))
				if capture != "" {
					found = append(found, capture)
				}
			}
		}
	}
	return uniqueSorted(found)
}

// EvidencePatterns returns the compiled patterns registered for an evidence
// kind, or nil.
func (rs *Ruleset) EvidencePatterns(kind string) []*regexp.Regexp {
	return rs.evidencePatterns[kind]
}

var tokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z-]{2,}`)

// SignificantTokens extracts the distinctive word stems of a sentence:
// lowercased, lightly stemmed, stopwords removed, at least four characters,
// unique, in order of first appearance.
func (rs *Ruleset) SignificantTokens(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, w := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		if _, ok := rs.stopwords[w]; ok {
			continue
		}
		t := stem(w)
		if len(t) < 4 {
			continue
		}
		if _, ok := rs.stopwords[t]; ok {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// stem trims common English suffixes so "torqued" searches as "torqu" and
// "bolts" as "bolt". Word-prefix matching makes truncation stems sufficient.
func stem(w string) string {
	for _, suf := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(w, suf) && len(w)-len(suf) >= 4 {
			return w[:len(w)-len(suf)]
		}
	}
	return w
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
