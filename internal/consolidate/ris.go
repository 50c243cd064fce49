// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sysreview/pkg/types"
)

// taggedLine matches RIS ("TY  - ") and MEDLINE ("PMID- ", "AU  - ") lines.
var taggedLine = regexp.MustCompile(`^([A-Z][A-Z0-9]  |[A-Z][A-Z0-9]{2} |[A-Z][A-Z0-9]{3})- ?(.*)$`)

var risStart = regexp.MustCompile(`(?m)^TY  -`)

// tagged is the ordered tag/value list of one RIS or MEDLINE entry.
type tagged map[string][]string

func (t tagged) first(tags ...string) string {
	for _, tag := range tags {
		if vs := t[tag]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
	}
	return ""
}

func (t tagged) joined(sep string, tags ...string) string {
	for _, tag := range tags {
		if vs := t[tag]; len(vs) > 0 {
			return strings.Join(vs, sep)
		}
	}
	return ""
}

// parseTagged reads tag lines; an untagged non-blank line continues the
// previous value. Tags are padded to four columns before the dash.
func parseTagged(lines []string) tagged {
	t := make(tagged)
	last := ""
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if m := taggedLine.FindStringSubmatch(line); m != nil {
			last = strings.TrimSpace(m[1])
			t[last] = append(t[last], strings.TrimSpace(m[2]))
			continue
		}
		if s := strings.TrimSpace(line); s != "" && last != "" {
			vs := t[last]
			vs[len(vs)-1] = strings.TrimSpace(vs[len(vs)-1] + " " + s)
		}
	}
	return t
}

// splitRIS splits content into entries at "ER  -" lines, or at blank lines
// when no terminator is present.
func splitRIS(content string) [][]string {
	var entries [][]string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			entries = append(entries, cur)
			cur = nil
		}
	}
	terminated := strings.Contains(content, "ER  -")
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case terminated && strings.HasPrefix(trimmed, "ER  -"):
			flush()
		case !terminated && trimmed == "":
			flush()
		default:
			if trimmed != "" {
				cur = append(cur, line)
			}
		}
	}
	flush()
	return entries
}

var yearToken = regexp.MustCompile(`\b(1[5-9]\d\d|20\d\d)\b`)

// risYear extracts the year from PY/Y1/DA values such as "2019///".
func risYear(t tagged) string {
	raw := t.first("PY", "Y1", "DA")
	if m := yearToken.FindString(raw); m != "" {
		return m
	}
	return raw
}

func risRecord(t tagged, source string) types.Record {
	return types.Record{
		Year:               risYear(t),
		Title:              t.first("TI", "T1"),
		Abstract:           t.joined(" ", "AB", "N2"),
		Keywords:           t.joined("; ", "KW"),
		Author:             t.joined("; ", "AU", "A1"),
		DocumentIdentifier: t.first("TY"),
		Journal:            t.first("JO", "T2", "JF"),
		DOI:                t.first("DO", "DI"),
		Source:             source,
	}
}
