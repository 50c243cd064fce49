// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "strings"

// Expr is a parsed query. The zero value and the result of parsing an
// empty query match nothing. An Expr is safe for concurrent use.
type Expr struct {
	raw  string
	root node
}

// Parse builds the expression tree for q. Malformed input is handled on a
// best-effort basis and never returns an error.
func Parse(q string) *Expr {
	e := &Expr{raw: q}
	toks := lex(q)
	if len(toks) == 0 {
		return e
	}
	p := &parser{toks: toks}
	e.root = p.parseExpr()
	return e
}

// Match reports whether text satisfies the expression. Matching is
// case-insensitive.
func (e *Expr) Match(text string) bool {
	if e == nil || e.root == nil {
		return false
	}
	return e.root.match(strings.ToLower(text))
}

// Raw returns the query string the expression was parsed from.
func (e *Expr) Raw() string {
	if e == nil {
		return ""
	}
	return e.raw
}

// String returns the normalized form of the expression, with explicit
// operators and parenthesized OR clauses.
func (e *Expr) String() string {
	if e == nil || e.root == nil {
		return ""
	}
	return e.root.String()
}

// Evaluate parses q and matches it against text.
func Evaluate(q, text string) bool {
	return Parse(q).Match(text)
}

// BuildMask matches e against every value and returns one result per value.
func BuildMask(e *Expr, values []string) []bool {
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = e.Match(v)
	}
	return mask
}
