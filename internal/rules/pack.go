// SPDX-License-Identifier: Apache-2.0

package rules

// Pack is the on-disk form of a rule pack. Every pattern family the engine
// scans with lives here as data, so the rule set can be inspected, tested and
// extended without touching control flow.
type Pack struct {
	Version            string              `yaml:"version" json:"version,omitempty"`
	Mining             []MiningRuleSpec    `yaml:"mining" json:"mining,omitempty"`
	Fields             []FieldRuleSpec     `yaml:"fields" json:"fields,omitempty"`
	Aliases            map[string]string   `yaml:"aliases" json:"aliases,omitempty"`
	EvidenceCues       map[string][]string `yaml:"evidence_cues" json:"evidence_cues,omitempty"`
	EvidencePatterns   map[string][]string `yaml:"evidence_patterns" json:"evidence_patterns,omitempty"`
	SeverityCues       SeverityCueSpec     `yaml:"severity_cues" json:"severity_cues"`
	Components         []string            `yaml:"components" json:"components,omitempty"`
	FailureModes       []string            `yaml:"failure_modes" json:"failure_modes,omitempty"`
	FailureCuePatterns []string            `yaml:"failure_cue_patterns" json:"failure_cue_patterns,omitempty"`
	CaseIDPatterns     []string            `yaml:"case_id_patterns" json:"case_id_patterns,omitempty"`
	SectionHeaders     []string            `yaml:"section_headers" json:"section_headers,omitempty"`
	Stopwords          []string            `yaml:"stopwords" json:"stopwords,omitempty"`
}

// MiningRuleSpec derives requirements of one kind from reference text.
// An empty evidence_kinds list marks the kind as narrative: matching
// requirements are later judged by their own description cues.
type MiningRuleSpec struct {
	Kind          string   `yaml:"kind" json:"kind,omitempty"`
	IDPrefix      string   `yaml:"id_prefix" json:"id_prefix,omitempty"`
	Patterns      []string `yaml:"patterns" json:"patterns,omitempty"`
	EvidenceKinds []string `yaml:"evidence_kinds" json:"evidence_kinds,omitempty"`
}

// FieldRuleSpec locates one labeled field in subject text. The pattern must
// carry exactly one capture group: the field value.
type FieldRuleSpec struct {
	Key     string `yaml:"key" json:"key,omitempty"`
	Pattern string `yaml:"pattern" json:"pattern,omitempty"`
	Date    bool   `yaml:"date" json:"date,omitempty"`
}

// SeverityCueSpec maps lexical cues to requirement severity. A sentence
// containing a high cue is high severity, else a medium cue medium, else low.
type SeverityCueSpec struct {
	High   []string `yaml:"high" json:"high,omitempty"`
	Medium []string `yaml:"medium" json:"medium,omitempty"`
}
