package screen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sysreview/internal/httputil"
	"github.com/pdiddy/sysreview/pkg/types"
)

func init() {
	RetryWait = time.Millisecond
	RetryWaitMax = 5 * time.Millisecond
	httputil.RetryBaseDelay = time.Millisecond
}

func TestYearHint(t *testing.T) {
	assert.Equal(t, notAvailable, YearHint("no years here 123"))
	assert.Equal(t, "2019", YearHint("2018 then 2019, again 2019 and 1999"))
	// Ties go to the first mention.
	assert.Equal(t, "2020", YearHint("2020 2021"))
	assert.Equal(t, notAvailable, YearHint("21000 A2019"))
}

func TestAgeHints(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"nothing relevant", notAvailable},
		{"children aged 7-9 took part", "7–9 years"},
		{"Ages 5 to 6", "5–6 years"},
		{"(M = 8.5, SD = 1.1)", "~8.5 years (mean)"},
		{"the mean age is 10", "10 years"},
		{"between 4 and 6 years old", "4–6 years; 6 years"},
		{"a 3 year study of 12 years olds", "12 years; 3 years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeHints(tt.text), tt.text)
	}
}

func TestNoteAndPrompt(t *testing.T) {
	assert.Equal(t, "", Note("plain text"))
	assert.Equal(t, "NOTE: year=2020; ages=N/A\n\n", Note("published 2020"))

	p := BuildPrompt("published 2020", 0)
	assert.Equal(t, "PAPER TEXT:\nNOTE: year=2020; ages=N/A\n\npublished 2020", p)

	short := BuildPrompt("plain text", 5)
	assert.Equal(t, "PAPER TEXT:\nplain", short)
}

func TestSanitizeAndTruncate(t *testing.T) {
	assert.Equal(t, "a\tb\nc", Sanitize("a\x00\tb\x0b\n\x1fc"))
	assert.Equal(t, "ok", Sanitize("o\xffk"))
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "héllo", Truncate("héllo", 0))
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		raw     string
		want    Decision
		wantErr bool
	}{
		{raw: `{"Related":"Yes","Justification":"RCT with 40 children and NAO."}`,
			want: Decision{Yes, "RCT with 40 children and NAO."}},
		{raw: "```json\n{\"Related\": \"yes\", \"Justification\": \"Line one\\nline two\"}\n```",
			want: Decision{Yes, "Line one line two"}},
		{raw: `{"Related":"Maybe"}`, want: Decision{No, noEvidence}},
		{raw: `no json here`, wantErr: true},
		{raw: `{"Related": }`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseDecision(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestListPapers(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	papers, err := ListPapers(dir)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "a", papers[0].ID)
	assert.Equal(t, "b", papers[1].ID)

	_, err = ListPapers(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	_, err := ExtractText(path, 100, nil)
	assert.Error(t, err)
}

// fakeBackend answers from a per-prompt function and records calls.
type fakeBackend struct {
	mu      sync.Mutex
	calls   int
	answer  func(prompt string, call int) (Decision, error)
	prompts []string
}

func (f *fakeBackend) Model() string { return "fake-model" }

func (f *fakeBackend) Screen(_ context.Context, criteria, prompt string) (Decision, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.answer(prompt, n)
}

func screeningConfig() types.ScreeningConfig {
	cfg := types.DefaultPipelineConfig().Screening
	cfg.RequestDelay = 0
	cfg.Timeout = time.Second
	return cfg
}

func pdfDir(t *testing.T, ids ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, id := range ids {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".pdf"), []byte(id), 0o644))
	}
	return dir
}

// readID stands in for PDF extraction: the text is the file content.
func readID(path string) (string, error) {
	b, err := os.ReadFile(path)
	return string(b), err
}

func TestScreenDir(t *testing.T) {
	fb := &fakeBackend{answer: func(prompt string, _ int) (Decision, error) {
		switch {
		case strings.Contains(prompt, "p2"):
			return Decision{}, errors.New("boom")
		case strings.Contains(prompt, "p1"):
			return Decision{Yes, "Children and a robot."}, nil
		}
		return Decision{No, "Adults only."}, nil
	}}

	cfg := screeningConfig()
	cfg.Concurrency = 3
	var mu sync.Mutex
	observed := 0
	s, err := New(cfg, fb,
		WithTextExtractor(readID),
		WithObserver(func(types.ScreeningResult) { mu.Lock(); observed++; mu.Unlock() }))
	require.NoError(t, err)

	results, err := s.ScreenDir(context.Background(), pdfDir(t, "p3", "p1", "p2"))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, types.ScreeningResult{Model: "fake-model", PaperID: "p1", Related: Yes, Justification: "Children and a robot."}, results[0])
	assert.Equal(t, "p2", results[1].PaperID)
	assert.Equal(t, No, results[1].Related)
	assert.Equal(t, "Error during screening: boom", results[1].Justification)
	assert.Equal(t, No, results[2].Related)
	assert.Equal(t, 3, observed)

	yes, no := Count(results)
	assert.Equal(t, 1, yes)
	assert.Equal(t, 2, no)
}

func TestScreenDirCancelledKeepsDecidedOnly(t *testing.T) {
	tests := []struct {
		name   string
		answer func(cancel context.CancelFunc) func(string, int) (Decision, error)
		want   []string
		calls  int
	}{
		{
			name: "cancelled after a decision",
			answer: func(cancel context.CancelFunc) func(string, int) (Decision, error) {
				return func(string, int) (Decision, error) {
					cancel()
					return Decision{Yes, "Children and a robot."}, nil
				}
			},
			want:  []string{"p1"},
			calls: 1,
		},
		{
			name: "cancelled during a decision",
			answer: func(cancel context.CancelFunc) func(string, int) (Decision, error) {
				return func(_ string, call int) (Decision, error) {
					if call == 1 {
						return Decision{Yes, "Children and a robot."}, nil
					}
					cancel()
					return Decision{}, context.Canceled
				}
			},
			want:  []string{"p1"},
			calls: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			fb := &fakeBackend{answer: tt.answer(cancel)}

			cfg := screeningConfig()
			cfg.Concurrency = 1
			cfg.MaxRetries = 3
			var observed []string
			s, err := New(cfg, fb,
				WithTextExtractor(readID),
				WithObserver(func(r types.ScreeningResult) { observed = append(observed, r.PaperID) }))
			require.NoError(t, err)

			results, err := s.ScreenDir(ctx, pdfDir(t, "p1", "p2", "p3"))
			assert.ErrorIs(t, err, context.Canceled)

			var ids []string
			for _, r := range results {
				ids = append(ids, r.PaperID)
				assert.Equal(t, Yes, r.Related)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.want, observed)
			assert.Equal(t, tt.calls, fb.calls)
			assert.Equal(t, len(tt.want), ResultsFrame(results).Len())
		})
	}
}

func TestScreenRetries(t *testing.T) {
	fb := &fakeBackend{answer: func(_ string, call int) (Decision, error) {
		if call < 3 {
			return Decision{}, errors.New("transient")
		}
		return Decision{Yes, "ok"}, nil
	}}
	cfg := screeningConfig()
	cfg.MaxRetries = 3
	s, err := New(cfg, fb, WithTextExtractor(readID))
	require.NoError(t, err)

	res := s.ScreenPaper(context.Background(), Paper{ID: "x", Path: filepath.Join(pdfDir(t, "x"), "x.pdf")})
	assert.Equal(t, Yes, res.Related)
	assert.Equal(t, 3, fb.calls)
}

func TestScreenExtractionFailureStillScreens(t *testing.T) {
	fb := &fakeBackend{answer: func(string, int) (Decision, error) { return Decision{No, "No text."}, nil }}
	s, err := New(screeningConfig(), fb,
		WithTextExtractor(func(string) (string, error) { return "", errors.New("corrupt") }))
	require.NoError(t, err)

	res := s.ScreenPaper(context.Background(), Paper{ID: "bad"})
	assert.Equal(t, "No text.", res.Justification)
	assert.Equal(t, []string{"PAPER TEXT:\n"}, fb.prompts)
}

func TestScreenDirEmpty(t *testing.T) {
	s, err := New(screeningConfig(), &fakeBackend{})
	require.NoError(t, err)
	_, err = s.ScreenDir(context.Background(), t.TempDir())
	assert.ErrorContains(t, err, "no PDFs")
}

func TestNewValidates(t *testing.T) {
	_, err := New(screeningConfig(), nil)
	assert.Error(t, err)
	cfg := screeningConfig()
	cfg.Criteria = " "
	_, err = New(cfg, &fakeBackend{})
	assert.Error(t, err)
}

func TestResultsFrame(t *testing.T) {
	f := ResultsFrame([]types.ScreeningResult{
		{Model: "m", PaperID: "p", Related: Yes, Justification: "bad\x01char"},
		{PaperID: "q"},
	})
	assert.Equal(t, types.ScreeningColumns, f.Columns)
	assert.Equal(t, []string{"m", "p", Yes, "badchar"}, f.Rows[0])
	assert.Equal(t, []string{"N/A", "q", "N/A", "N/A"}, f.Rows[1])
}

func TestClaudeBackend(t *testing.T) {
	var got claudeRequest
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{
			{Type: "text", Text: `{"Related":"Yes","Justification":"Physical robot with 6-year-olds."}`},
		}})
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	b := &ClaudeBackend{APIKey: "test-key", Name: "claude-test", Client: ts.Client(), MaxRetries: 2}
	d, err := b.Screen(context.Background(), "criteria", "PAPER TEXT:\nx")
	require.NoError(t, err)
	assert.Equal(t, Decision{Yes, "Physical robot with 6-year-olds."}, d)
	assert.Equal(t, "criteria", got.System)
	assert.Equal(t, "claude-test", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "PAPER TEXT:\nx", got.Messages[0].Content)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClaudeBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer ts.Close()

	old := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = old }()

	b := &ClaudeBackend{APIKey: "k", Name: "m", Client: ts.Client()}
	_, err := b.Screen(context.Background(), "c", "p")
	assert.ErrorContains(t, err, "401")
}

func TestOpenAIBackend(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"created_at": 0,
			"model": "gpt-4.1-mini",
			"status": "completed",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"status": "completed",
				"role": "assistant",
				"content": [{"type": "output_text", "annotations": [],
					"text": "{\"Related\":\"No\",\"Justification\":\"Participants were adults.\"}"}]
			}]
		}`))
	}))
	defer ts.Close()

	b := NewOpenAIBackend("sk-test", "gpt-4.1-mini",
		option.WithBaseURL(ts.URL+"/"), option.WithMaxRetries(0), option.WithHTTPClient(ts.Client()))
	assert.Equal(t, "gpt-4.1-mini", b.Model())

	d, err := b.Screen(context.Background(), "criteria", "PAPER TEXT:\nx")
	require.NoError(t, err)
	assert.Equal(t, Decision{No, "Participants were adults."}, d)

	assert.Equal(t, "gpt-4.1-mini", body["model"])
	assert.Equal(t, "criteria", body["instructions"])
	assert.Equal(t, "PAPER TEXT:\nx", body["input"])
	format := body["text"].(map[string]any)["format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "screening_decision", format["name"])
}
