// SPDX-License-Identifier: Apache-2.0

package evidence

import (
	"strings"
	"time"
)

// Numeric forms read day-first, matching the service reports this engine was
// built for. Unrecognizable inputs are kept raw rather than dropped.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// CanonicalDate rewrites a recognizable date string as YYYY-MM-DD. The
// second return reports whether a layout matched; if none did, the input is
// returned unchanged.
func CanonicalDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return raw, false
}
