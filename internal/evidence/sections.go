// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"regexp"
	"strings"
)

// Section is one heading-delimited region of a subject document. Text before
// the first heading carries an empty Heading.
type Section struct {
	Heading string
	Lines   []string
}

var (
	// "FINDINGS:" or "Parts Used:" on a line of its own.
	colonHeadingRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 /&-]{0,47}:\s*$`)
	// "FINDINGS" in full caps, at least three characters.
	capsHeadingRe = regexp.MustCompile(`^[A-Z][A-Z0-9 /&-]{2,47}$`)
)

// splitSections splits normalized text on headings. A heading is a Markdown
// heading line, a short line ending in a bare colon, or a short all-caps
// line. Lines that carry a value after the colon ("Turbine ID: T-42") are
// content, not headings.
func splitSections(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	var currentHeading string
	var currentLines []string

	flush := func() {
		if currentHeading == "" && len(currentLines) == 0 {
			return
		}
		sections = append(sections, Section{
			Heading: currentHeading,
			Lines:   currentLines,
		})
	}

	for _, line := range lines {
		if h, ok := headingOf(line); ok {
			flush()
			currentHeading = h
			currentLines = nil
		} else {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return sections
}

func headingOf(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return strings.TrimSpace(strings.TrimLeft(trimmed, "#")), true
	}
	if colonHeadingRe.MatchString(trimmed) {
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimRight(trimmed, " \t"), ":")), true
	}
	if capsHeadingRe.MatchString(trimmed) {
		return trimmed, true
	}
	return "", false
}
