// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"strings"

	"github.com/pdiddy/sysreview/pkg/types"
)

// splitBlank splits MEDLINE content into blank-line separated entries.
func splitBlank(content string) [][]string {
	var entries [][]string
	var cur []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				entries = append(entries, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		entries = append(entries, cur)
	}
	return entries
}

// pubmedDOI picks the article identifier tagged [doi].
func pubmedDOI(t tagged) string {
	for _, v := range append(t["AID"], t["LID"]...) {
		if id, ok := strings.CutSuffix(strings.TrimSpace(v), "[doi]"); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

// pubmedAuthor converts a full author name "Family, Given" to "Given
// Family" so the surname is the last word.
func pubmedAuthor(full string) string {
	family, given, ok := strings.Cut(full, ",")
	if !ok {
		return strings.TrimSpace(full)
	}
	return strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(family))
}

func pubmedRecord(t tagged, source string) types.Record {
	year, _, _ := strings.Cut(t.first("DP"), " ")

	var authors []string
	for _, a := range t["FAU"] {
		authors = append(authors, pubmedAuthor(a))
	}
	if len(authors) == 0 {
		authors = t["AU"]
	}

	return types.Record{
		Year:     year,
		Title:    t.first("TI"),
		Abstract: t.joined(" ", "AB"),
		Keywords: t.joined("; ", "OT", "MH"),
		Author:   strings.Join(authors, "; "),
		Journal:  t.first("JT", "TA"),
		DOI:      pubmedDOI(t),
		Source:   source,
	}
}
