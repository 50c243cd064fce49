package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sysreview/pkg/types"
)

func testCfg() types.DedupConfig {
	return types.DefaultPipelineConfig().Dedup
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testCfg())
	require.NoError(t, err)
	return e
}

func rec(year, title, author, doi, source string) types.Record {
	return types.Record{
		Year:               year,
		Title:              title,
		Abstract:           "An abstract about " + title,
		Author:             author,
		DOI:                doi,
		Source:             source,
		DocumentIdentifier: "Journal",
	}
}

// --- Normalization ---

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://dx.doi.org/10.1/ABC.", "10.1/abc"},
		{"http://doi.org/10.1145/3434073.3444650", "10.1145/3434073.3444650"},
		{"HTTPS://DOI.ORG/10.1/x);", "10.1/x"},
		{"  10.1016/J.CHB.2020.106;, ", "10.1016/j.chb.2020.106"},
		{"10.1002%2Fabc", "10.1002/abc"},
		{"https%3A%2F%2Fdoi.org%2F10.5%2Fq", "10.5/q"},
		{"10.1/a%2Fb%zz", "10.1/a/b%zz"},
		{"10.1/a%2fb%", "10.1/a/b%"},
		{"10.1/caf%C3%A9", "10.1/café"},
		{"", ""},
		{"nan", ""},
		{"NaN", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeDOI(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeDOI(got); again != got {
				t.Errorf("NormalizeDOI not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeDOIIdempotentOnOddInput(t *testing.T) {
	for _, in := range []string{
		"10.1/a%2541",
		"https://doi.org/https://doi.org/10.1/x",
		"https://doi.org/nan",
		"10.1/x . ) ;",
		"%zz",
	} {
		once := NormalizeDOI(in)
		assert.Equal(t, once, NormalizeDOI(once), "input %q", in)
	}
}

func TestTitleFingerprint(t *testing.T) {
	assert.Equal(t,
		TitleFingerprint("Robots and Children"),
		TitleFingerprint("Children and Robots"))
	assert.Equal(t, "children robots", TitleFingerprint("Robots and Children"))
	assert.Equal(t,
		TitleFingerprint("A Study of Robots and Children"),
		TitleFingerprint("Study robots children A"))

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics", "Café Robots", "cafe robots"},
		{"dashes split", "Child–robot Interaction", "child interaction robot"},
		{"hyphen splits", "child-robot", "child robot"},
		{"punctuation dropped", "Robots: (a) review!", "robots"},
		{"underscores removed", "snake_case robots", "robots snakecase"},
		{"compatibility forms", "ﬁeld robots", "field robots"},
		{"empty", "", ""},
		{"nan", "nan", ""},
		{"only stopwords", "The Study of the Analysis", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleFingerprint(tt.in); got != tt.want {
				t.Errorf("TitleFingerprint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleFingerprintTruncates(t *testing.T) {
	long := strings.Repeat("robotics ", 100) + strings.Repeat("é", 300)
	fp := TitleFingerprint(long)
	assert.Equal(t, maxFingerprintLen, len([]rune(fp)))
}

func TestFirstAuthorSurname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"John SMITH; Jane Doe", "smith"},
		{"john smith", "smith"},
		{"  Ana María García  ", "garcía"},
		{"; Jane Doe", ""},
		{"", ""},
		{"nan", ""},
	}
	for _, tt := range tests {
		if got := FirstAuthorSurname(tt.in); got != tt.want {
			t.Errorf("FirstAuthorSurname(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2019", 2019, true},
		{" 2020 ", 2020, true},
		{"2021.0", 2021, true},
		{"2021.5", 0, false},
		{"in press", 0, false},
		{"", 0, false},
		{"nan", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseYear(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// --- Similarity ---

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSetRatio("Robots for Children", "children FOR robots"))
	assert.Equal(t, 100.0, TokenSetRatio("robots helping children", "Robots helping children: a field trial"))
	assert.Equal(t, 0.0, TokenSetRatio("", "robots"))
	assert.Equal(t, 0.0, TokenSetRatio("!!!", "robots"))
	assert.InDelta(t, 74.4186, TokenSetRatio("social robots in classrooms", "social robots in kindergartens"), 0.001)
	assert.InDelta(t, TokenSetRatio("abc def", "abd xyz"), TokenSetRatio("abd xyz", "abc def"), 1e-9)
	assert.Less(t, TokenSetRatio("robots", "tablets"), 50.0)
}

func TestLCSLength(t *testing.T) {
	assert.Equal(t, 3, lcsLength([]rune("classrooms"), []rune("kindergartens")))
	assert.Equal(t, 0, lcsLength([]rune(""), []rune("abc")))
	assert.Equal(t, 4, lcsLength([]rune("abcd"), []rune("abcd")))
}

// --- Survivor ---

func TestSurvivorScoreCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b SurvivorScore
		want int
	}{
		{"doi wins over abstract", SurvivorScore{1, 0, 0}, SurvivorScore{0, 900, 6}, 1},
		{"abstract breaks doi tie", SurvivorScore{1, 10, 0}, SurvivorScore{1, 20, 6}, -1},
		{"source breaks remaining tie", SurvivorScore{0, 10, 5}, SurvivorScore{0, 10, 2}, 1},
		{"equal", SurvivorScore{1, 10, 3}, SurvivorScore{1, 10, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compare(tt.b))
		})
	}
}

func TestScore(t *testing.T) {
	pref := []string{"WoS", "Scopus", "IEEE", "ACM", "SD", "PubMed"}
	r := types.Record{Abstract: "héllo", Source: "WoS"}
	assert.Equal(t, SurvivorScore{1, 5, 6}, Score(r, "10.1/x", pref))
	r = types.Record{Abstract: "nan", Source: "Other"}
	assert.Equal(t, SurvivorScore{0, 0, 0}, Score(r, "", pref))
	r = types.Record{Source: "PubMed"}
	assert.Equal(t, 1, Score(r, "", pref).SourceRank)
}

// --- Engine ---

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := testCfg()
	cfg.FuzzyThreshold = 101
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestExactDOIDuplicate(t *testing.T) {
	records := []types.Record{
		rec("2020", "Robots teaching vocabulary", "A Lee", "10.1/ABC", "Scopus"),
		rec("2021", "Completely different title", "B Kim", "https://doi.org/10.1/abc", "WoS"),
	}
	res := newEngine(t).Deduplicate(records)

	require.Len(t, res.Audit, 2)
	assert.True(t, res.Audit[0].Keep)
	assert.Equal(t, "", res.Audit[0].Flag)
	assert.False(t, res.Audit[1].Keep)
	assert.Equal(t, FlagDOI, res.Audit[1].Flag)
	require.Len(t, res.Kept, 1)
	assert.Equal(t, "Robots teaching vocabulary", res.Kept[0].Title)
	assert.Equal(t, 1, res.Stats.DOIDuplicates)
}

func TestEmptyDOIsNeverMatch(t *testing.T) {
	records := []types.Record{
		rec("2020", "First paper on robots", "A Lee", "", "WoS"),
		rec("2020", "Second paper on tablets", "B Kim", "nan", "WoS"),
		rec("2020", "Third paper on toys", "C Park", "  ", "WoS"),
	}
	res := newEngine(t).Deduplicate(records)
	assert.Equal(t, 0, res.Stats.Duplicates())
	assert.Len(t, res.Kept, 3)
}

func TestFingerprintDoesNotOverwriteDOIFlag(t *testing.T) {
	records := []types.Record{
		rec("2020", "Robots and Children", "A Lee", "10.1/x", "WoS"),
		rec("2020", "Children and Robots", "A Lee", "10.1/x", "WoS"),
		rec("2020", "children, robots", "Z Zed", "", "WoS"),
	}
	res := newEngine(t).Deduplicate(records)
	assert.Equal(t, FlagDOI, res.Audit[1].Flag)
	assert.Equal(t, FlagFingerprint, res.Audit[2].Flag)
	assert.Equal(t, 1, res.Stats.DOIDuplicates)
	assert.Equal(t, 1, res.Stats.FingerprintDuplicates)
}

func TestFuzzyBlockingBoundary(t *testing.T) {
	base := "Robots helping children learn vocabulary in classrooms"
	variant := base + ": a field trial"

	t.Run("surname case folds into one block", func(t *testing.T) {
		records := []types.Record{
			rec("2020", base, "John SMITH; Jane Doe", "", "WoS"),
			rec("2021", variant, "john smith", "", "WoS"),
		}
		res := newEngine(t).Deduplicate(records)
		assert.Equal(t, 1, res.Stats.FuzzyDuplicates)
		// The variant has the longer abstract and survives.
		assert.True(t, strings.HasPrefix(res.Audit[0].Flag, "Fuzzy Title ("))
		assert.True(t, res.Audit[1].Keep)
	})

	t.Run("two year gap is never compared", func(t *testing.T) {
		records := []types.Record{
			rec("2018", base, "John Smith", "", "WoS"),
			rec("2020", variant, "John Smith", "", "WoS"),
		}
		res := newEngine(t).Deduplicate(records)
		assert.Equal(t, 0, res.Stats.FuzzyDuplicates)
		assert.Equal(t, 0, res.Stats.FuzzyComparisons)
		assert.Len(t, res.Kept, 2)
	})

	t.Run("different surnames are never compared", func(t *testing.T) {
		records := []types.Record{
			rec("2020", base, "John Smith", "", "WoS"),
			rec("2020", variant, "John Jones", "", "WoS"),
		}
		res := newEngine(t).Deduplicate(records)
		assert.Equal(t, 0, res.Stats.FuzzyComparisons)
	})

	t.Run("missing year or surname skips blocking", func(t *testing.T) {
		records := []types.Record{
			rec("", base, "John Smith", "", "WoS"),
			rec("2020", variant, "John Smith", "", "WoS"),
			rec("2020", base+" again", "", "", "WoS"),
		}
		res := newEngine(t).Deduplicate(records)
		assert.Equal(t, 0, res.Stats.FuzzyComparisons)
		assert.Len(t, res.Kept, 3)
	})

	t.Run("pairs compared once across windows", func(t *testing.T) {
		records := []types.Record{
			rec("2019", "Tablet study of toddlers", "John Smith", "", "WoS"),
			rec("2020", "Robot tutors for reading", "John Smith", "", "WoS"),
			rec("2021", "Speech recognition for kids", "John Smith", "", "WoS"),
		}
		res := newEngine(t).Deduplicate(records)
		// (2019,2020) and (2020,2021); 2019 and 2021 are two years apart.
		assert.Equal(t, 2, res.Stats.FuzzyComparisons)
	})
}

func TestSurvivorPolicyPrefersDOI(t *testing.T) {
	base := "Robots helping children learn vocabulary in classrooms"
	noDOI := rec("2020", base+": a field trial", "John Smith", "", "WoS")
	noDOI.Abstract = strings.Repeat("long abstract ", 50)
	withDOI := rec("2020", base, "John Smith", "10.9/kept", "PubMed")
	withDOI.Abstract = "short"

	res := newEngine(t).Deduplicate([]types.Record{noDOI, withDOI})
	require.Len(t, res.Kept, 1)
	assert.Equal(t, "10.9/kept", res.Kept[0].DOI)
	assert.False(t, res.Audit[0].Keep)
	assert.True(t, res.Audit[1].Keep)
}

func TestSurvivorTieKeepsFirst(t *testing.T) {
	base := "Robots helping children learn vocabulary in classrooms"
	a := rec("2020", base, "John Smith", "", "WoS")
	b := rec("2020", base+": a field trial", "John Smith", "", "WoS")
	b.Abstract = a.Abstract

	res := newEngine(t).Deduplicate([]types.Record{a, b})
	assert.True(t, res.Audit[0].Keep)
	assert.Equal(t, "Fuzzy Title (100.0)", res.Audit[1].Flag)
}

func TestEndToEndScenario(t *testing.T) {
	records := []types.Record{
		rec("2020", "A Study of Robots and Children", "Maria Rossi; Luca Bianchi", "", "WoS"),
		rec("2019", "Tablet-based storytelling for toddlers", "Ana Lopez", "10.1/SAME", "Scopus"),
		rec("2021", "Study robots children A", "Maria Rossi", "", "IEEE"),
		rec("2022", "Speech development in preschoolers", "Tom Hardy", "https://doi.org/10.1/same", "ACM"),
		rec("2018", "Emotion recognition for social robots", "Kim Park", "10.2/other", "SD"),
	}
	res := newEngine(t).Deduplicate(records)

	require.Len(t, res.Kept, 3)
	assert.Equal(t, FlagFingerprint, res.Audit[2].Flag)
	assert.Equal(t, FlagDOI, res.Audit[3].Flag)
	assert.Equal(t, Stats{
		Input:                 5,
		DOIDuplicates:         1,
		FingerprintDuplicates: 1,
		Kept:                  3,
	}, res.Stats)
}

func TestDeduplicateDoesNotMutateInput(t *testing.T) {
	records := []types.Record{
		rec("2020", "Robots", "A Lee", "10.1/x", "WoS"),
		rec("2020", "Robots", "A Lee", "10.1/X", "WoS"),
	}
	records[0].Extra = []types.Field{{Name: "Note", Value: "n"}}
	orig := records[0]
	res := newEngine(t).Deduplicate(records)
	_ = res.AuditRecords()
	assert.Equal(t, orig, records[0])
	assert.Len(t, records[0].Extra, 1)
}

func TestAuditRecordsCarryAnnotations(t *testing.T) {
	records := []types.Record{
		rec("2020.0", "Robots", "A Lee", "10.1/x", "WoS"),
		rec("2020", "Robots", "A Lee", "10.1/X", "Scopus"),
	}
	rows := newEngine(t).Deduplicate(records).AuditRecords()
	require.Len(t, rows, 2)
	assert.Equal(t, "true", rows[0].Get(types.ColKeep))
	assert.Equal(t, "false", rows[1].Get(types.ColKeep))
	assert.Equal(t, FlagDOI, rows[1].Get(types.ColDuplicateFlag))
	assert.Equal(t, "10.1/x", rows[0].Get(types.ColDOINormalized))
	assert.Equal(t, "2020", rows[0].Get(types.ColYearNumeric))
	assert.Equal(t, "lee", rows[0].Get(types.ColFirstAuthor))
	assert.Equal(t, "robots", rows[0].Get(types.ColTitleFP))
}

func TestKeptStripsDerivedColumns(t *testing.T) {
	r := rec("2020", "Robots", "A Lee", "", "WoS")
	r.Extra = []types.Field{
		{Name: types.ColDuplicateFlag, Value: ""},
		{Name: types.ColKeep, Value: "true"},
		{Name: "Note", Value: "keep me"},
	}
	res := newEngine(t).Deduplicate([]types.Record{r})
	require.Len(t, res.Kept, 1)
	assert.Equal(t, []types.Field{{Name: "Note", Value: "keep me"}}, res.Kept[0].Extra)
}

func TestRemoveUnwanted(t *testing.T) {
	cfg := testCfg()
	good := rec("2020", "Robots", "A Lee", "", "WoS")

	contents := good
	contents.Title = "Table of Contents"
	noAbstract := good
	noAbstract.Abstract = "   "
	nanAbstract := good
	nanAbstract.Abstract = "nan"
	boilerplate := good
	boilerplate.Abstract = "Abstract:"
	book := good
	book.DocumentIdentifier = "BOOK"
	chapter := good
	chapter.DocumentIdentifier = "Book Chapter"

	out := RemoveUnwanted([]types.Record{contents, noAbstract, nanAbstract, boilerplate, book, chapter, good}, cfg)
	require.Len(t, out, 2)
	assert.Equal(t, "Book Chapter", out[0].DocumentIdentifier)
	assert.Equal(t, good, out[1])
}

func TestUnwantedCountedInStats(t *testing.T) {
	a := rec("2020", "Index", "A Lee", "", "WoS")
	b := rec("2020", "Robots", "B Kim", "", "WoS")
	res := newEngine(t).Deduplicate([]types.Record{a, b})
	assert.Equal(t, 1, res.Stats.Unwanted)
	assert.Equal(t, 1, res.Stats.Kept)
	// The audit table still lists the removed row as kept by dedup.
	assert.True(t, res.Audit[0].Keep)
}
