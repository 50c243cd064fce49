// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxFingerprintLen bounds the title fingerprint, in characters.
const maxFingerprintLen = 180

var doiResolver = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)

// stopwords are dropped from title fingerprints.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "and": true, "for": true,
	"in": true, "on": true, "to": true, "with": true, "from": true, "into": true,
	"by": true, "study": true, "analysis": true, "review": true,
}

// missing reports whether a cell should be read as empty. Spreadsheet
// round trips leave "nan" and similar markers in blank cells.
func missing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "none", "null", "<na>":
		return true
	}
	return false
}

// NormalizeDOI returns the canonical form of a DOI: percent-escapes decoded,
// resolver prefix and trailing punctuation removed, lower-cased. Missing
// values normalize to "".
func NormalizeDOI(raw string) string {
	if missing(raw) {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(raw))
	// Repeating to a fixed point makes the result stable under
	// renormalization; each pass that changes v decodes or strips something.
	for {
		prev := v
		v = unescape(v)
		v = doiResolver.ReplaceAllString(v, "")
		v = strings.TrimSpace(v)
		v = strings.ToLower(strings.TrimRight(v, " .;,)"))
		if v == prev {
			break
		}
	}
	if missing(v) {
		return ""
	}
	return v
}

// unescape decodes every well-formed %XX escape and leaves malformed ones
// as they are. Decoded bytes that are not UTF-8 become U+FFFD.
func unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				b = append(b, byte(n))
				i += 2
				continue
			}
		}
		b = append(b, s[i])
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

var stripMarks = runes.Remove(runes.In(unicode.Mn))

// TitleFingerprint returns a word-order-invariant signature of a title:
// compatibility-normalized, diacritics and punctuation removed, stopwords
// dropped, remaining tokens sorted. Missing titles yield "".
func TitleFingerprint(title string) string {
	if missing(title) {
		return ""
	}
	t := norm.NFKC.String(strings.ToLower(title))
	if s, _, err := transform.String(transform.Chain(norm.NFKD, stripMarks), t); err == nil {
		t = s
	}
	t = strings.Map(func(r rune) rune {
		switch {
		case r == '_' || unicode.IsSpace(r):
			return r
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			return r
		}
		// Dashes and every other non-word character split tokens.
		return ' '
	}, t)

	var tokens []string
	for _, w := range strings.Fields(t) {
		if stopwords[w] {
			continue
		}
		if w = strings.ReplaceAll(w, "_", ""); w != "" {
			tokens = append(tokens, w)
		}
	}
	sort.Strings(tokens)
	key := []rune(strings.Join(tokens, " "))
	if len(key) > maxFingerprintLen {
		key = key[:maxFingerprintLen]
	}
	return string(key)
}

// FirstAuthorSurname returns the lower-cased last word of the first name in
// a semicolon-separated author list.
func FirstAuthorSurname(author string) string {
	if missing(author) {
		return ""
	}
	first, _, _ := strings.Cut(author, ";")
	words := strings.Fields(first)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[len(words)-1])
}

// ParseYear parses a year cell. Integral floats ("2019.0") are accepted;
// anything else reports ok=false.
func ParseYear(raw string) (year int, ok bool) {
	s := strings.TrimSpace(raw)
	if missing(s) {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
