// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns exactly one topical category to each record
// using priority-ordered boolean category rules.
package classify

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/internal/query"
	"github.com/pdiddy/sysreview/pkg/types"
)

// RequiredColumns are the columns a classifier input table must carry.
var RequiredColumns = []string{types.ColTitle, types.ColAbstract}

// Rule is a category with its merged query. Rules configured more than
// once for the same category are OR-combined into one Rule.
type Rule struct {
	Category    string
	Query       string
	Priority    int // index in the priority order; unlisted categories share the last index
	Specificity int // alphanumeric characters in Query
	expr        *query.Expr
}

// Label is the category chosen for a record.
type Label struct {
	Category string

	// TitleMatch is set when the winning rule matched the title alone.
	TitleMatch bool
}

// Classifier assigns labels. It is safe for concurrent use.
type Classifier struct {
	rules  []Rule
	mode   types.ClassifyMode
	logger *zap.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the classifier's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// New validates cfg, merges duplicate categories and parses every rule.
func New(cfg types.ClassifierConfig, opts ...Option) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := types.ParseClassifyMode(string(cfg.Mode))
	c := &Classifier{mode: mode, logger: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}

	priority := make(map[string]int, len(cfg.Priority))
	for i, p := range cfg.Priority {
		if _, ok := priority[p]; !ok {
			priority[p] = i
		}
	}

	var order []string
	grouped := make(map[string][]string)
	for _, r := range cfg.Rules {
		if _, ok := grouped[r.Category]; !ok {
			order = append(order, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], strings.TrimSpace(r.Query))
	}
	for _, cat := range order {
		q := mergeQueries(grouped[cat])
		p, ok := priority[cat]
		if !ok {
			p = len(cfg.Priority)
		}
		c.rules = append(c.rules, Rule{
			Category:    cat,
			Query:       q,
			Priority:    p,
			Specificity: specificity(q),
			expr:        query.Parse(q),
		})
	}
	return c, nil
}

func mergeQueries(qs []string) string {
	if len(qs) == 1 {
		return qs[0]
	}
	return "(" + strings.Join(qs, ") OR (") + ")"
}

func specificity(q string) int {
	n := 0
	for _, r := range q {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			n++
		}
	}
	return n
}

// Rules returns the merged rules in configuration order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Mode returns the active classification mode.
func (c *Classifier) Mode() types.ClassifyMode { return c.mode }

// Classify returns the best matching category for r, or Unclassified.
// Candidates rank by priority, then title match, then specificity
// (higher first), then category name.
func (c *Classifier) Classify(r types.Record) Label {
	title := r.Title
	combined := strings.TrimSpace(title + " " + r.Abstract)

	var (
		best  *Rule
		label = Label{Category: types.Unclassified}
	)
	for i := range c.rules {
		rule := &c.rules[i]
		var matched, titleMatch bool
		switch c.mode {
		case types.ModeTitle:
			matched = rule.expr.Match(title)
			titleMatch = matched
		case types.ModeAbstract:
			matched = rule.expr.Match(r.Abstract)
		default:
			titleMatch = rule.expr.Match(title)
			matched = titleMatch || rule.expr.Match(combined)
		}
		if !matched {
			continue
		}
		if best == nil || better(rule, titleMatch, best, label.TitleMatch) {
			best = rule
			label = Label{Category: rule.Category, TitleMatch: titleMatch}
		}
	}
	return label
}

// better reports whether candidate a outranks the current best b.
func better(a *Rule, aTitle bool, b *Rule, bTitle bool) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if aTitle != bTitle {
		return aTitle
	}
	if a.Specificity != b.Specificity {
		return a.Specificity > b.Specificity
	}
	return a.Category < b.Category
}

// ClassifyAll returns copies of records with the Classification column set.
func (c *Classifier) ClassifyAll(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	unclassified := 0
	for i, r := range records {
		l := c.Classify(r)
		if l.Category == types.Unclassified {
			unclassified++
		}
		out[i] = r.With(types.ColClassification, l.Category)
	}
	c.logger.Info("classification complete",
		zap.String("mode", string(c.mode)),
		zap.Int("records", len(records)),
		zap.Int("unclassified", unclassified),
	)
	return out
}
