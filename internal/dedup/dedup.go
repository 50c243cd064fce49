// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup removes duplicate bibliographic records. It runs three
// passes in order: exact normalized DOI, exact title fingerprint, and fuzzy
// title similarity within blocks of records that share a first-author
// surname and fall inside a small publication-year window. A survivor
// policy decides which fuzzy duplicate is kept. Finally, index pages,
// abstract-less rows and excluded document types are dropped from the kept
// set.
package dedup

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/pdiddy/sysreview/pkg/types"
)

// Duplicate flag values. Fuzzy flags carry the similarity score.
const (
	FlagDOI         = "Duplicate DOI"
	FlagFingerprint = "Duplicate Title (fingerprint)"
	fuzzyFlagFormat = "Fuzzy Title (%.1f)"
)

// RequiredColumns are the columns a deduplication input table must carry.
var RequiredColumns = []string{
	types.ColYear, types.ColTitle, types.ColAbstract, types.ColAuthor,
	types.ColDOI, types.ColSource, types.ColDocumentIdentifier,
}

// derivedColumns are annotation columns owned by this package. They are
// stripped from kept records so a rerun on an audit table starts clean.
var derivedColumns = []string{
	types.ColDuplicateFlag, types.ColKeep, types.ColDOINormalized,
	types.ColTitleFP, types.ColYearNumeric, types.ColFirstAuthor,
	types.ColSurvivorScore,
}

// AuditRecord is one input record with its derived keys and decision.
type AuditRecord struct {
	Record           types.Record
	DOINormalized    string
	TitleFingerprint string
	Year             int
	HasYear          bool
	FirstAuthor      string
	Score            SurvivorScore
	Flag             string
	Keep             bool
}

// Annotated returns the audit record as a table row: the input record plus
// the decision and derived-key columns.
func (a AuditRecord) Annotated() types.Record {
	r := a.Record.With(types.ColDuplicateFlag, a.Flag)
	r.Set(types.ColKeep, strconv.FormatBool(a.Keep))
	r.Set(types.ColDOINormalized, a.DOINormalized)
	r.Set(types.ColTitleFP, a.TitleFingerprint)
	year := ""
	if a.HasYear {
		year = strconv.Itoa(a.Year)
	}
	r.Set(types.ColYearNumeric, year)
	r.Set(types.ColFirstAuthor, a.FirstAuthor)
	r.Set(types.ColSurvivorScore, a.Score.String())
	return r
}

// Stats counts the outcome of one deduplication run.
type Stats struct {
	Input                 int
	DOIDuplicates         int
	FingerprintDuplicates int
	FuzzyDuplicates       int
	FuzzyComparisons      int
	Unwanted              int
	Kept                  int
}

// Duplicates returns the number of records flagged by any pass.
func (s Stats) Duplicates() int {
	return s.DOIDuplicates + s.FingerprintDuplicates + s.FuzzyDuplicates
}

// Result holds the audit table and the filtered record set.
type Result struct {
	// Audit has one entry per input record, in input order.
	Audit []AuditRecord

	// Kept holds unflagged records after unwanted-row removal, with
	// derived columns stripped.
	Kept []types.Record

	Stats Stats
}

// AuditRecords returns the audit table rows.
func (r Result) AuditRecords() []types.Record {
	out := make([]types.Record, len(r.Audit))
	for i, a := range r.Audit {
		out[i] = a.Annotated()
	}
	return out
}

// Engine deduplicates record sets. It holds no per-run state and may be
// reused.
type Engine struct {
	cfg    types.DedupConfig
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-decision debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine for cfg. The config is validated.
func New(cfg types.DedupConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Deduplicate flags duplicates in records and returns the audit table and
// the kept set. Input records are never modified. Ties resolve to the
// earlier record, so the result is fully determined by input order.
func (e *Engine) Deduplicate(records []types.Record) Result {
	audit := make([]AuditRecord, len(records))
	for i, r := range records {
		doi := NormalizeDOI(r.DOI)
		year, ok := ParseYear(r.Year)
		audit[i] = AuditRecord{
			Record:           r,
			DOINormalized:    doi,
			TitleFingerprint: TitleFingerprint(r.Title),
			Year:             year,
			HasYear:          ok,
			FirstAuthor:      FirstAuthorSurname(r.Author),
			Score:            Score(r, doi, e.cfg.PreferredSources),
			Keep:             true,
		}
	}

	stats := Stats{Input: len(records)}
	stats.DOIDuplicates = exactPass(audit, FlagDOI, func(a *AuditRecord) string { return a.DOINormalized })
	stats.FingerprintDuplicates = exactPass(audit, FlagFingerprint, func(a *AuditRecord) string { return a.TitleFingerprint })
	stats.FuzzyDuplicates, stats.FuzzyComparisons = e.fuzzyPass(audit)

	var kept []types.Record
	for _, a := range audit {
		if a.Keep {
			kept = append(kept, stripDerived(a.Record))
		}
	}
	before := len(kept)
	kept = RemoveUnwanted(kept, e.cfg)
	stats.Unwanted = before - len(kept)
	stats.Kept = len(kept)

	e.logger.Info("deduplication complete",
		zap.Int("input", stats.Input),
		zap.Int("doi_duplicates", stats.DOIDuplicates),
		zap.Int("fingerprint_duplicates", stats.FingerprintDuplicates),
		zap.Int("fuzzy_duplicates", stats.FuzzyDuplicates),
		zap.Int("fuzzy_comparisons", stats.FuzzyComparisons),
		zap.Int("unwanted", stats.Unwanted),
		zap.Int("kept", stats.Kept),
	)
	return Result{Audit: audit, Kept: kept, Stats: stats}
}

// exactPass flags every unflagged record whose non-empty key was already
// seen on an earlier unflagged record.
func exactPass(audit []AuditRecord, flag string, key func(*AuditRecord) string) int {
	seen := make(map[string]bool)
	n := 0
	for i := range audit {
		a := &audit[i]
		if a.Flag != "" {
			continue
		}
		k := key(a)
		if k == "" {
			continue
		}
		if seen[k] {
			a.Flag = flag
			a.Keep = false
			n++
			continue
		}
		seen[k] = true
	}
	return n
}

// fuzzyPass compares kept records blocked by first-author surname and a
// year window. For every distinct year T the block for a surname holds the
// kept records with |year - T| <= YearWindow; a pair is compared only when
// its own year gap is inside the window, and at most once. Resolution
// follows input order and skips records dropped earlier in the pass.
func (e *Engine) fuzzyPass(audit []AuditRecord) (flagged, comparisons int) {
	var (
		surnames []string
		bySur    = make(map[string][]int)
		years    []int
		seenYear = make(map[int]bool)
	)
	for i, a := range audit {
		if !a.Keep || a.FirstAuthor == "" || !a.HasYear {
			continue
		}
		if _, ok := bySur[a.FirstAuthor]; !ok {
			surnames = append(surnames, a.FirstAuthor)
		}
		bySur[a.FirstAuthor] = append(bySur[a.FirstAuthor], i)
		if !seenYear[a.Year] {
			seenYear[a.Year] = true
			years = append(years, a.Year)
		}
	}

	w := e.cfg.YearWindow
	compared := make(map[[2]int]bool)
	for _, sur := range surnames {
		members := bySur[sur]
		if len(members) < 2 {
			continue
		}
		for _, target := range years {
			var block []int
			for _, i := range members {
				if abs(audit[i].Year-target) <= w {
					block = append(block, i)
				}
			}
			for x := 0; x < len(block); x++ {
				a := block[x]
				for y := x + 1; y < len(block); y++ {
					b := block[y]
					if !audit[a].Keep {
						break
					}
					if !audit[b].Keep || abs(audit[a].Year-audit[b].Year) > w {
						continue
					}
					pair := [2]int{a, b}
					if compared[pair] {
						continue
					}
					compared[pair] = true
					comparisons++

					score := TokenSetRatio(audit[a].Record.Title, audit[b].Record.Title)
					if score < e.cfg.FuzzyThreshold {
						continue
					}
					keep, drop := pickSurvivor(a, b, audit[a].Score, audit[b].Score)
					audit[drop].Flag = fmt.Sprintf(fuzzyFlagFormat, score)
					audit[drop].Keep = false
					flagged++
					e.logger.Debug("fuzzy duplicate",
						zap.String("surname", sur),
						zap.Int("keep_row", keep),
						zap.Int("drop_row", drop),
						zap.Float64("score", score),
					)
				}
			}
		}
	}
	return flagged, comparisons
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func stripDerived(r types.Record) types.Record {
	if len(r.Extra) == 0 {
		return r
	}
	out := r
	out.Extra = nil
	for _, f := range r.Extra {
		if !isDerived(f.Name) {
			out.Extra = append(out.Extra, f)
		}
	}
	return out
}

func isDerived(col string) bool {
	for _, c := range derivedColumns {
		if c == col {
			return true
		}
	}
	return false
}
