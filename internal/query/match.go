// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// node is one element of a parsed query tree. match receives text that is
// already lower-cased.
type node interface {
	match(text string) bool
	String() string
}

// andNode matches when every group matches.
type andNode []node

func (n andNode) match(text string) bool {
	for _, g := range n {
		if !g.match(text) {
			return false
		}
	}
	return true
}

func (n andNode) String() string {
	parts := make([]string, len(n))
	for i, g := range n {
		parts[i] = g.String()
	}
	return strings.Join(parts, " AND ")
}

// orNode matches when any term matches. An empty clause never matches.
type orNode []node

func (n orNode) match(text string) bool {
	for _, t := range n {
		if t.match(text) {
			return true
		}
	}
	return false
}

func (n orNode) String() string {
	parts := make([]string, len(n))
	for i, t := range n {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// notNode matches when pos matches and no exclusion clause does. An empty
// exclusion clause excludes nothing.
type notNode struct {
	pos node
	neg []node
}

func (n notNode) match(text string) bool {
	if !n.pos.match(text) {
		return false
	}
	for _, c := range n.neg {
		if c.match(text) {
			return false
		}
	}
	return true
}

func (n notNode) String() string {
	var b strings.Builder
	b.WriteString(n.pos.String())
	for _, c := range n.neg {
		b.WriteString(" ANDNOT ")
		b.WriteString(c.String())
	}
	return b.String()
}

type termKind int

const (
	termSubstring termKind = iota
	termPhrase
	termPrefix
)

type term struct {
	kind termKind
	text string // lower-cased; the stem for prefix terms
}

// newTerm classifies raw term text. It returns nil for text that cannot
// match anything (empty phrase, bare "*").
func newTerm(raw string, quoted bool) node {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case quoted:
		if s == "" {
			return nil
		}
		return term{kind: termPhrase, text: s}
	case strings.HasSuffix(s, "*"):
		stem := strings.TrimRight(s, "*")
		if stem == "" {
			return nil
		}
		return term{kind: termPrefix, text: stem}
	case s == "":
		return nil
	}
	return term{kind: termSubstring, text: s}
}

func (t term) match(text string) bool {
	switch t.kind {
	case termPhrase:
		return containsBounded(text, t.text, true)
	case termPrefix:
		return containsBounded(text, t.text, false)
	}
	return strings.Contains(text, t.text)
}

func (t term) String() string {
	switch t.kind {
	case termPhrase:
		return `"` + t.text + `"`
	case termPrefix:
		return t.text + "*"
	}
	return t.text
}

// containsBounded reports whether needle occurs in text starting at a word
// boundary and, when both is set, also ending at one.
func containsBounded(text, needle string, both bool) bool {
	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	for from := 0; from <= len(text); {
		i := strings.Index(text[from:], needle)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(needle)
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if start == 0 {
			prev = ' '
		}
		next, _ := utf8.DecodeRuneInString(text[end:])
		if end == len(text) {
			next = ' '
		}
		if isWord(prev) != isWord(first) && (!both || isWord(last) != isWord(next)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return false
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}
