// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query parses and evaluates boolean keyword queries over free text.
// A query is built from terms joined by AND, OR and ANDNOT with optional
// parentheses. The relevance filter and the classifier both use it.
//
// Grammar (operators are case-insensitive; NotAND and "AND NOT" are
// synonyms of ANDNOT):
//
//	expr    := group { [AND] group }
//	group   := clause { ANDNOT clause }
//	clause  := primary { OR primary }
//	primary := '(' expr ')' | term
//
// Parsing never fails. Unbalanced parentheses degrade: a missing ')' closes
// at the end of input and a stray ')' is skipped.
package query

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokPhrase
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokAndNot
	tokEOF
)

type token struct {
	kind tokenKind
	text string
}

// lex splits s into tokens. Quoted text (double or single quotes) is one
// phrase token; a word is a run of characters up to whitespace, a
// parenthesis or a double quote.
func lex(s string) []token {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen})
			i++
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				j++
			}
			toks = append(toks, token{kind: tokPhrase, text: string(rs[i+1 : j])})
			i = j + 1
		default:
			j := i
			for j < len(rs) && !unicode.IsSpace(rs[j]) && rs[j] != '(' && rs[j] != ')' && rs[j] != '"' {
				j++
			}
			toks = append(toks, wordToken(string(rs[i:j])))
			i = j
		}
	}
	return dropStrayClose(mergeAndNot(toks))
}

func wordToken(w string) token {
	switch strings.ToUpper(w) {
	case "AND":
		return token{kind: tokAnd, text: w}
	case "OR":
		return token{kind: tokOr, text: w}
	case "ANDNOT", "NOTAND":
		return token{kind: tokAndNot, text: w}
	}
	return token{kind: tokWord, text: w}
}

// mergeAndNot folds the two-word form "AND NOT" into a single ANDNOT token.
func mergeAndNot(toks []token) []token {
	out := toks[:0]
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind == tokAnd && i+1 < len(toks) &&
			toks[i+1].kind == tokWord && strings.EqualFold(toks[i+1].text, "NOT") {
			t = token{kind: tokAndNot, text: "ANDNOT"}
			i++
		}
		out = append(out, t)
	}
	return out
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func startsPrimary(k tokenKind) bool {
	return k == tokWord || k == tokPhrase || k == tokLParen
}

// parseExpr reads AND-joined groups up to the end of input or a ')'.
func (p *parser) parseExpr() node {
	var groups []node
	groups = append(groups, p.parseGroup())
	for {
		switch k := p.peek().kind; {
		case k == tokAnd:
			p.next()
			groups = append(groups, p.parseGroup())
		case startsPrimary(k):
			groups = append(groups, p.parseGroup())
		default:
			if len(groups) == 1 {
				return groups[0]
			}
			return andNode(groups)
		}
	}
}

func (p *parser) parseGroup() node {
	pos := p.parseClause()
	var neg []node
	for p.peek().kind == tokAndNot {
		p.next()
		neg = append(neg, p.parseClause())
	}
	if len(neg) == 0 {
		return pos
	}
	return notNode{pos: pos, neg: neg}
}

func (p *parser) parseClause() node {
	var terms []node
	if n := p.parsePrimary(); n != nil {
		terms = append(terms, n)
	}
	for p.peek().kind == tokOr {
		p.next()
		if n := p.parsePrimary(); n != nil {
			terms = append(terms, n)
		}
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return orNode(terms)
}

// dropStrayClose removes every ')' that closes nothing, so the tokens
// around it parse as if it were absent.
func dropStrayClose(toks []token) []token {
	out := toks[:0]
	depth := 0
	for _, t := range toks {
		switch t.kind {
		case tokLParen:
			depth++
		case tokRParen:
			if depth == 0 {
				continue
			}
			depth--
		}
		out = append(out, t)
	}
	return out
}

// parsePrimary returns nil without consuming input when the next token
// cannot start a primary.
func (p *parser) parsePrimary() node {
	switch p.peek().kind {
	case tokLParen:
		p.next()
		n := p.parseExpr()
		if p.peek().kind == tokRParen {
			p.next()
		}
		return n
	case tokPhrase:
		t := p.next()
		return newTerm(t.text, true)
	case tokWord:
		var words []string
		for p.peek().kind == tokWord {
			words = append(words, p.next().text)
		}
		return newTerm(strings.Join(words, " "), false)
	}
	return nil
}
