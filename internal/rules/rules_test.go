// SPDX-License-Identifier: Apache-2.0

package rules_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirscanproj/cirscan/internal/rules"
)

// ---------------------------------------------------------------------------
// Default pack
// ---------------------------------------------------------------------------

func TestDefault_LoadsAndCompiles(t *testing.T) {
	rs := rules.Default()
	require.NotNil(t, rs)
	assert.NotEmpty(t, rs.Version)

	kinds := make(map[string]bool)
	for _, m := range rs.Mining {
		kinds[m.Kind] = true
		assert.NotEmpty(t, m.IDPrefix)
	}
	for _, k := range []string{
		"test_method", "documentation", "visual_inspection",
		"procedural", "acceptance_standard", "work_instruction",
	} {
		assert.True(t, kinds[k], "default pack should mine kind %q", k)
	}

	assert.NotEmpty(t, rs.Fields)
	assert.NotEmpty(t, rs.EvidenceCues["photo"])
	assert.NotEmpty(t, rs.Components)
}

func TestDefault_SameInstance(t *testing.T) {
	assert.Same(t, rules.Default(), rules.Default())
}

// ---------------------------------------------------------------------------
// Ruleset scanning
// ---------------------------------------------------------------------------

func TestRuleset_CaseID(t *testing.T) {
	rs := rules.Default()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "cim reference", text: "Reference document CIM-2041 issued by engineering.", want: "CIM-2041"},
		{name: "cir reference", text: "See CIR 77 for details.", want: "CIR 77"},
		{name: "case number", text: "Case no: 4419 opened last week.", want: "Case no: 4419"},
		{name: "no identifier", text: "Routine service visit.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rs.CaseID(tt.text))
		})
	}
}

func TestRuleset_ComponentsIn(t *testing.T) {
	rs := rules.Default()

	got := rs.ComponentsIn("The gearbox was opened; Gearbox oil drained, one bolt replaced.")
	assert.Equal(t, []string{"Bolt", "Gearbox"}, got, "unique, sorted, capitalized")

	assert.Empty(t, rs.ComponentsIn("Nothing mechanical mentioned here."))
}

func TestRuleset_FailureModesIn(t *testing.T) {
	rs := rules.Default()

	got := rs.FailureModesIn("Severe corrosion observed near the flange. Root cause: bearing misalignment")
	assert.Contains(t, got, "corrosion")
	assert.Contains(t, got, "bearing misalignment")
}

func TestRuleset_SignificantTokens(t *testing.T) {
	rs := rules.Default()

	tokens := rs.SignificantTokens("Bolts shall be torqued to spec")
	assert.Contains(t, tokens, "bolt")
	assert.Contains(t, tokens, "torqu")
	assert.Contains(t, tokens, "spec")
	assert.NotContains(t, tokens, "shall")
}

// ---------------------------------------------------------------------------
// Sentence segmentation
// ---------------------------------------------------------------------------

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "terminal punctuation splits",
			text: "Inspect the blade root. Record all findings.",
			want: []string{"Inspect the blade root.", "Record all findings."},
		},
		{
			name: "step markers stay attached",
			text: "Step 1. Torque the bolts. Check for damage.",
			want: []string{"Step 1. Torque the bolts.", "Check for damage."},
		},
		{
			name: "decimal numbers do not split",
			text: "Torque to 850.5 Nm as specified.",
			want: []string{"Torque to 850.5 Nm as specified."},
		},
		{
			name: "lines split independently",
			text: "First line without terminator\nSecond line here.",
			want: []string{"First line without terminator", "Second line here."},
		},
		{
			name: "blank input",
			text: "   \n\n  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Sentences(tt.text))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a\nb\nc", rules.NormalizeText("a\r\nb\rc\n"))
}

func TestHasWordPrefix(t *testing.T) {
	tests := []struct {
		name string
		text string
		tok  string
		want bool
	}{
		{name: "exact word", text: "bolts were torqued", tok: "torqued", want: true},
		{name: "stem matches inflected form", text: "bolts were torqued", tok: "torqu", want: true},
		{name: "match at start of text", text: "signed off by qa", tok: "signed", want: true},
		{name: "no match inside a word", text: "the flange was designed well", tok: "signed", want: false},
		{name: "no match mid-word for stems", text: "a thorough inspection", tok: "spec", want: false},
		{name: "multi-word cue", text: "test passed within tolerance", tok: "test passed", want: true},
		{name: "punctuation is a boundary", text: "torque: 2800 nm", tok: "torque", want: true},
		{name: "absent token", text: "no findings today", tok: "torque", want: false},
		{name: "empty token", text: "anything", tok: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.HasWordPrefix(tt.text, tt.tok))
		})
	}
}

// ---------------------------------------------------------------------------
// LoadPack
// ---------------------------------------------------------------------------

const minimalPack = `version: "t1"
mining:
  - kind: visual_inspection
    id_prefix: VIS
    patterns: ['(?i)\binspect\b']
    evidence_kinds: [photo]
fields:
  - key: Turbine ID
    pattern: '(?i)turbine\s*id\s*:\s*(\S+)'
evidence_cues:
  photo: [photo]
severity_cues:
  high: [must]
  medium: [should]
components: [blade]
`

func TestLoadPack(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantErr     bool
		errContains string
	}{
		{
			name:    "minimal valid pack",
			content: minimalPack,
			wantErr: false,
		},
		{
			name:        "missing version fails schema",
			content:     "mining:\n  - kind: procedural\n    id_prefix: PROC\n    patterns: ['x']\nfields: []\nevidence_cues: {}\nseverity_cues:\n  high: []\n  medium: []\ncomponents: []\n",
			wantErr:     true,
			errContains: "schema validation",
		},
		{
			name:        "unknown kind fails schema",
			content:     "version: \"t\"\nmining:\n  - kind: telepathy\n    id_prefix: TEL\n    patterns: ['x']\nfields: []\nevidence_cues: {}\nseverity_cues:\n  high: []\n  medium: []\ncomponents: []\n",
			wantErr:     true,
			errContains: "schema validation",
		},
		{
			name:        "uncompilable pattern rejected",
			content:     "version: \"t\"\nmining:\n  - kind: procedural\n    id_prefix: PROC\n    patterns: ['([unclosed']\nfields: []\nevidence_cues: {}\nseverity_cues:\n  high: []\n  medium: []\ncomponents: []\n",
			wantErr:     true,
			errContains: "bad pattern",
		},
		{
			name:        "not yaml at all",
			content:     "{{{{",
			wantErr:     true,
			errContains: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/pack.yaml", []byte(tt.content), 0o644))

			rs, err := rules.LoadPack(fs, "/pack.yaml")
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "t1", rs.Version)
			require.Len(t, rs.Mining, 1)
			assert.True(t, rs.Mining[0].Matches("Visually inspect the hub."))
		})
	}
}

func TestLoadPack_MissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := rules.LoadPack(fs, "/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rule pack")
}
