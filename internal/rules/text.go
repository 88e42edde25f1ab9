// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"regexp"
	"strings"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	// A bare list marker ("1.", "a)", "Step 3.") is not a sentence end;
	// it stays attached to the step text that follows it.
	listMarkerRe = regexp.MustCompile(`(?i)^(?:step\s+)?\(?[0-9A-Za-z]{1,3}[.)]$`)
)

// NormalizeText converts line endings to \n and trims surrounding whitespace.
// This is the only text mutation the engine performs; everything downstream
// scans the normalized form.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// HasWordPrefix reports whether tok occurs in text starting at a word
// boundary. Tokens are often stems, so nothing is required after the match:
// "torqu" matches "torqued", while "spec" does not match inside
// "inspection". Both arguments are expected lowercased.
func HasWordPrefix(text, tok string) bool {
	if tok == "" {
		return false
	}
	for i := 0; i+len(tok) <= len(text); {
		j := strings.Index(text[i:], tok)
		if j < 0 {
			return false
		}
		pos := i + j
		if pos == 0 || !isWordByte(text[pos-1]) {
			return true
		}
		i = pos + 1
	}
	return false
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Sentences segments text into sentence-sized units: lines are split first,
// then each line on terminal punctuation. Numbered or lettered step markers
// do not end a sentence, so "Step 1. Torque the bolts." stays whole.
func Sentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		start := 0
		for _, loc := range sentenceEndRe.FindAllStringIndex(line, -1) {
			seg := strings.TrimSpace(line[start:loc[1]])
			if seg == "" {
				continue
			}
			if listMarkerRe.MatchString(seg) {
				continue
			}
			out = append(out, seg)
			start = loc[1]
		}
		if rest := strings.TrimSpace(line[start:]); rest != "" {
			out = append(out, rest)
		}
	}
	return out
}
