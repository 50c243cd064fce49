// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consolidate

import (
	"strings"
	"unicode"

	"github.com/pdiddy/sysreview/pkg/types"
)

// bibEntry is one @type{key, field = value, ...} block.
type bibEntry struct {
	Type   string
	Key    string
	Fields map[string]string
}

// parseBibTeX scans content for entries. Values may be braced (nested
// braces allowed), double-quoted or bare. @comment, @string and @preamble
// blocks are skipped. A truncated final entry keeps the fields read so far.
func parseBibTeX(content string) []bibEntry {
	var entries []bibEntry
	s := content
	for {
		at := strings.IndexByte(s, '@')
		if at < 0 {
			return entries
		}
		s = s[at+1:]
		typ, rest := readIdent(s)
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if typ == "" || rest == "" || (rest[0] != '{' && rest[0] != '(') {
			continue
		}
		body, next := readBalanced(rest)
		s = next
		switch strings.ToLower(typ) {
		case "comment", "string", "preamble":
			continue
		}
		entries = append(entries, parseBibBody(typ, body))
	}
}

// parseBibBody parses "key, field = value, ..." inside an entry.
func parseBibBody(typ, body string) bibEntry {
	e := bibEntry{Type: typ, Fields: make(map[string]string)}
	key, fields, _ := strings.Cut(body, ",")
	e.Key = strings.TrimSpace(key)

	s := fields
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
		if s == "" {
			return e
		}
		name, rest := readIdent(s)
		if name == "" {
			// Skip a malformed token up to the next separator.
			if i := strings.IndexByte(s, ','); i >= 0 {
				s = s[i+1:]
				continue
			}
			return e
		}
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if !strings.HasPrefix(rest, "=") {
			s = rest
			continue
		}
		rest = strings.TrimLeftFunc(rest[1:], unicode.IsSpace)
		value, after := readValue(rest)
		name = strings.ToLower(name)
		if _, dup := e.Fields[name]; !dup {
			e.Fields[name] = cleanBibValue(value)
		}
		s = after
	}
}

func readIdent(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' || c == '-' || c == ':' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// readBalanced reads a block opened by s[0] ('{' or '(') up to its matching
// close and returns the inner text and the remainder.
func readBalanced(s string) (string, string) {
	open := s[0]
	closer := byte('}')
	if open == '(' {
		closer = ')'
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:]
			}
		}
	}
	return s[1:], ""
}

// readValue reads a field value, concatenating '#'-joined parts.
func readValue(s string) (string, string) {
	var b strings.Builder
	for {
		if s == "" {
			return b.String(), ""
		}
		var part string
		switch s[0] {
		case '{':
			part, s = readBalanced(s)
		case '"':
			end := closingQuote(s)
			part, s = s[1:end], s[min(end+1, len(s)):]
		default:
			i := strings.IndexAny(s, ",#}\n")
			if i < 0 {
				i = len(s)
			}
			part, s = strings.TrimSpace(s[:i]), s[i:]
		}
		b.WriteString(part)
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if !strings.HasPrefix(s, "#") {
			return b.String(), s
		}
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
	}
}

// closingQuote returns the index of the quote closing s[0], ignoring quotes
// nested inside braces.
func closingQuote(s string) int {
	depth := 0
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth <= 0 {
				return i
			}
		}
	}
	return len(s)
}

// cleanBibValue removes grouping braces and folds whitespace.
func cleanBibValue(v string) string {
	v = strings.NewReplacer("{", "", "}", "").Replace(v)
	return strings.Join(strings.Fields(v), " ")
}

// bibRecord maps an entry to a Record. Authors joined by " and " and
// keywords joined by ", " become semicolon lists.
func bibRecord(e bibEntry, source string) types.Record {
	f := e.Fields
	return types.Record{
		Year:               f["year"],
		Title:              f["title"],
		Abstract:           f["abstract"],
		Keywords:           strings.ReplaceAll(f["keywords"], ", ", "; "),
		Author:             strings.ReplaceAll(f["author"], " and ", "; "),
		DocumentIdentifier: e.Type,
		Journal:            firstNonEmpty(f["journal"], f["booktitle"]),
		DOI:                f["doi"],
		Source:             source,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
