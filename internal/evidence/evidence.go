// SPDX-License-Identifier: Apache-2.0

package evidence

// Record is the schema-less extraction result for one subject document.
// Keys in Fields are not predetermined; the extractor reports whatever it
// recognizes. Every key in Fields has a matching key in FieldSources naming
// the strategy that produced it, and values are never empty: an absent field
// is omitted, never present-with-empty.
type Record struct {
	Fields              map[string]string `json:"fields"`
	FieldSources        map[string]string `json:"field_sources"`
	RawText             string            `json:"raw_text"`
	ComponentsMentioned []string          `json:"components_mentioned"`
}

// FieldCandidate is one field proposal from a single extraction strategy,
// before merging. Source names the strategy for provenance.
type FieldCandidate struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}
