package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sysreview/pkg/types"
)

func rec(year, doc, source, class string) types.Record {
	r := types.Record{Year: year, DocumentIdentifier: doc, Source: source}
	if class != "" {
		r.Set(types.ColClassification, class)
	}
	return r
}

func TestFilterYears(t *testing.T) {
	records := []types.Record{
		rec("2009", "", "", ""),
		rec("2010", "", "", ""),
		rec("2015.0", "", "", ""),
		rec("n.d.", "", "", ""),
		rec("2023", "", "", ""),
		rec("2024", "", "", ""),
	}
	out := FilterYears(records, 2010, 2023)
	require.Len(t, out, 3)
	assert.Equal(t, "2010", out[0].Year)
	assert.Equal(t, "2015.0", out[1].Year)
	assert.Equal(t, "2023", out[2].Year)
}

func TestPapersPerYearSorted(t *testing.T) {
	records := []types.Record{
		rec("2020", "", "", ""), rec("2012", "", "", ""), rec("2020", "", "", ""), rec("", "", "", ""),
	}
	assert.Equal(t, []YearCount{{2012, 1}, {2020, 2}}, PapersPerYear(records))
}

func TestDistribution(t *testing.T) {
	records := []types.Record{
		rec("2020", "Journal", "WoS", ""),
		rec("2020", "Conf", "IEEE", ""),
		rec("2020", "Journal", "Scopus", ""),
		rec("2020", "", "IEEE", ""),
		rec("2020", "Book", "ACM", ""),
	}
	docs := Distribution(records, types.ColDocumentIdentifier, 0)
	assert.Equal(t, []Count{{"Journal", 2}, {"Book", 1}, {"Conf", 1}}, docs)

	top := Distribution(records, types.ColSource, 2)
	assert.Equal(t, []Count{{"IEEE", 2}, {"ACM", 1}}, top)
}

func TestAnalyze(t *testing.T) {
	records := []types.Record{
		rec("2009", "Journal", "WoS", ""),
		rec("2011", "Journal", "WoS", ""),
		rec("2011", "Conf", "IEEE", ""),
	}
	r := Analyze("Stage 1", records, types.AnalysisConfig{StartYear: 2010, EndYear: 2023, TopSources: 10})
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, []YearCount{{2011, 2}}, r.PerYear)
	assert.Len(t, r.RecordsInRange, 2)
	assert.Len(t, r.Sources, 2)
}

func TestSummaryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "07_numerical_analysis_summary.txt")
	first := Report{Label: "robot AND child", Total: 3, PerYear: []YearCount{{2015, 1}, {2016, 2}}}
	second := Report{Label: "Stage 2", Total: 1, PerYear: []YearCount{{2016, 1}}}
	require.NoError(t, AppendSummary(path, first))
	require.NoError(t, AppendSummary(path, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data),
		"Query: robot AND child\nTotal Papers: 3\nPapers Per Year:\n2015: 1\n2016: 2\n\n"))

	trends, err := ParseSummaries(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "robot AND child", trends[0].Query)
	assert.Equal(t, map[int]int{2015: 1, 2016: 2}, trends[0].Counts)
	assert.Equal(t, map[int]int{2016: 1}, trends[1].Counts)
}

func TestParseSummariesRepeatedQuery(t *testing.T) {
	in := "Query: A\nTotal Papers: 2\nPapers Per Year:\n2010: 2\n\n" +
		"Query: B\nPapers Per Year:\n2011: 4\n\n" +
		"Query: A\nPapers Per Year:\n2012: 5\n\n" +
		"2013: 9\n"
	trends, err := ParseSummaries(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "A", trends[0].Query)
	assert.Equal(t, map[int]int{2012: 5, 2013: 9}, trends[0].Counts)
	assert.Equal(t, "B", trends[1].Query)
}

func TestParseSummariesIgnoresYearsBeforeQuery(t *testing.T) {
	trends, err := ParseSummaries(strings.NewReader("2010: 3\n"))
	require.NoError(t, err)
	assert.Empty(t, trends)
}

func TestTrendFrame(t *testing.T) {
	trends := []Trend{
		{Query: "A", Counts: map[int]int{2010: 1, 2012: 3}},
		{Query: "B", Counts: map[int]int{2011: 2}},
	}
	f := TrendFrame(trends)
	assert.Equal(t, []string{"Year", "Q1", "Q2"}, f.Columns)
	assert.Equal(t, [][]string{
		{"2010", "1", "0"},
		{"2011", "0", "2"},
		{"2012", "3", "0"},
	}, f.Rows)

	legend := TrendLegend(trends)
	assert.Equal(t, [][]string{{"Q1", "A"}, {"Q2", "B"}}, legend.Rows)
}

func TestLabelSummary(t *testing.T) {
	records := []types.Record{
		rec("2020", "", "", "HRI"),
		rec("2020", "", "", "HRI, EDUCATION"),
		rec("2021", "", "", "REVIEW"),
		rec("2021", "", "", ""),
	}
	rows := LabelSummary(records)
	assert.Equal(t, []LabelCount{
		{Label: "HRI", Count: 2, Percent: 50},
		{Label: "REVIEW", Count: 1, Percent: 25},
		{Label: types.Unclassified, Count: 1, Percent: 25},
	}, rows)

	f := LabelSummaryFrame(rows)
	assert.Equal(t, []string{"HRI", "2", "50.00"}, f.Rows[0])
}

func TestLabelSummaryRounding(t *testing.T) {
	records := []types.Record{rec("", "", "", "A"), rec("", "", "", "B"), rec("", "", "", "B")}
	rows := LabelSummary(records)
	assert.Equal(t, 66.67, rows[0].Percent)
	assert.Equal(t, 33.33, rows[1].Percent)
}

func TestLabelsByYear(t *testing.T) {
	records := []types.Record{
		rec("", "", "", "HRI"),
		rec("2021", "", "", "HRI"),
		rec("2020", "", "", "REVIEW"),
		rec("2020", "", "", "HRI"),
		rec("2020", "", "", "HRI"),
		rec("2020", "", "", "AUTISM"),
	}
	rows := LabelsByYear(records)
	assert.Equal(t, []YearLabelCount{
		{"2020", "HRI", 2},
		{"2020", "AUTISM", 1},
		{"2020", "REVIEW", 1},
		{"2021", "HRI", 1},
		{"", "HRI", 1},
	}, rows)
	assert.Equal(t, []string{"Year", "Label", "Count"}, LabelsByYearFrame(rows).Columns)
}

func TestWriteCSL(t *testing.T) {
	records := []types.Record{
		{
			Title:              "Robots in class",
			Author:             "Jane Doe; Smith, John; Plato",
			Year:               "2019",
			DocumentIdentifier: "Journal",
			Journal:            "IJSR",
			DOI:                "https://doi.org/10.1/ABC",
		},
		{Title: "Untitled", DocumentIdentifier: "Conf"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSL(records, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	a := items[0]
	assert.Equal(t, "10.1/abc", a.ID)
	assert.Equal(t, "article-journal", a.Type)
	assert.Equal(t, "IJSR", a.ContainerTitle)
	assert.Equal(t, [][]int{{2019}}, a.Issued.DateParts)
	assert.Equal(t, []CSLName{
		{Family: "Doe", Given: "Jane"},
		{Family: "Smith", Given: "John"},
		{Literal: "Plato"},
	}, a.Author)

	b := items[1]
	assert.Equal(t, "paper-2", b.ID)
	assert.Equal(t, "paper-conference", b.Type)
	assert.Nil(t, b.Issued)
	assert.Empty(t, b.Author)
}
