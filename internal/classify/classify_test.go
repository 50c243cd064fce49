package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sysreview/pkg/types"
)

func rules(pairs ...string) []types.CategoryRule {
	var out []types.CategoryRule
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, types.CategoryRule{Category: pairs[i], Query: pairs[i+1]})
	}
	return out
}

func newClassifier(t *testing.T, cfg types.ClassifierConfig) *Classifier {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewValidates(t *testing.T) {
	_, err := New(types.ClassifierConfig{})
	assert.Error(t, err)
	_, err = New(types.ClassifierConfig{Rules: rules("A", "x"), Mode: "keywords"})
	assert.Error(t, err)
	_, err = New(types.ClassifierConfig{Rules: rules("", "x")})
	assert.Error(t, err)

	c, err := New(types.ClassifierConfig{Rules: rules("A", "x")})
	require.NoError(t, err)
	assert.Equal(t, types.ModeBoth, c.Mode())
}

func TestDuplicateCategoriesMerge(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{
		Rules:    rules("CRI", "child robot", "HRI", "hri", "CRI", "kid robot"),
		Priority: []string{"CRI", "HRI"},
	})
	rs := c.Rules()
	require.Len(t, rs, 2)
	assert.Equal(t, "CRI", rs[0].Category)
	assert.Equal(t, "(child robot) OR (kid robot)", rs[0].Query)
	assert.Equal(t, 0, rs[0].Priority)
	assert.Equal(t, 1, rs[1].Priority)

	assert.Equal(t, "CRI", c.Classify(types.Record{Title: "A kid robot study"}).Category)
}

func TestPriorityWins(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{
		Rules:    rules("HRI", "robot", "REVIEW", `"systematic review"`),
		Priority: []string{"REVIEW", "HRI"},
	})
	l := c.Classify(types.Record{Title: "Robot tutors: a systematic review"})
	assert.Equal(t, "REVIEW", l.Category)
	assert.True(t, l.TitleMatch)
}

func TestUnlistedCategoriesSortLast(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{
		Rules:    rules("ZETA", "robot", "OTHER", "robot"),
		Priority: []string{"HRI"},
	})
	rs := c.Rules()
	assert.Equal(t, 1, rs[0].Priority)
	// Equal priority and specificity fall back to the category name.
	assert.Equal(t, "OTHER", c.Classify(types.Record{Title: "robot"}).Category)
}

func TestTitleMatchPreferredInBothMode(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{
		Rules:    rules("A", "tablet", "B", "robot"),
		Priority: []string{"A", "B"},
	})
	// A only matches the abstract; B matches the title. Priority still wins.
	assert.Equal(t, "A", c.Classify(types.Record{Title: "robot", Abstract: "tablet"}).Category)

	c = newClassifier(t, types.ClassifierConfig{
		Rules: rules("A", "tablet", "B", "robot"),
	})
	// Same priority: the title match wins over the body match.
	l := c.Classify(types.Record{Title: "robot", Abstract: "tablet"})
	assert.Equal(t, "B", l.Category)
	assert.True(t, l.TitleMatch)
}

func TestSpecificityBreaksTies(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{
		Rules: rules("SHORT", "robot", "LONG", "robot OR robotic arm"),
	})
	assert.Equal(t, "LONG", c.Classify(types.Record{Title: "robot"}).Category)
}

func TestModes(t *testing.T) {
	cfg := types.ClassifierConfig{Rules: rules("EDU", "classroom")}
	rec := types.Record{Title: "Robot tutors", Abstract: "Deployed in a classroom."}

	cfg.Mode = types.ModeTitle
	assert.Equal(t, types.Unclassified, newClassifier(t, cfg).Classify(rec).Category)

	cfg.Mode = types.ModeAbstract
	l := newClassifier(t, cfg).Classify(rec)
	assert.Equal(t, "EDU", l.Category)
	assert.False(t, l.TitleMatch)

	cfg.Mode = types.ModeBoth
	l = newClassifier(t, cfg).Classify(rec)
	assert.Equal(t, "EDU", l.Category)
	assert.False(t, l.TitleMatch)

	// Abstract mode ignores the title.
	cfg.Mode = types.ModeAbstract
	assert.Equal(t, types.Unclassified,
		newClassifier(t, cfg).Classify(types.Record{Title: "classroom"}).Category)
}

func TestSingleLabelGuarantee(t *testing.T) {
	cfg := types.DefaultPipelineConfig().Classifier
	c := newClassifier(t, cfg)
	categories := map[string]bool{types.Unclassified: true}
	for _, r := range cfg.Rules {
		categories[r.Category] = true
	}
	records := []types.Record{
		{},
		{Title: "A systematic review of social robots for children"},
		{Title: "Robot-assisted surgery outcomes", Abstract: "Knee surgery with a robot."},
		{Title: "Editorial"},
		{Title: "Nothing relevant here", Abstract: "Pure mathematics."},
		{Title: "Social robots for the elderly"},
	}
	out := c.ClassifyAll(records)
	require.Len(t, out, len(records))
	for i, r := range out {
		label := r.Get(types.ColClassification)
		assert.True(t, categories[label], "record %d got %q", i, label)
	}
	assert.Equal(t, "REVIEW", out[1].Get(types.ColClassification))
	assert.Equal(t, "Editorial", out[3].Get(types.ColClassification))
	assert.Equal(t, "SR", out[5].Get(types.ColClassification))
}

func TestClassifyAllDoesNotMutateInput(t *testing.T) {
	c := newClassifier(t, types.ClassifierConfig{Rules: rules("A", "robot")})
	in := []types.Record{{Title: "robot", Extra: []types.Field{{Name: "Keep", Value: "true"}}}}
	out := c.ClassifyAll(in)
	assert.Len(t, in[0].Extra, 1)
	assert.Equal(t, "A", out[0].Get(types.ColClassification))
}
