// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"fmt"
	"unicode/utf8"

	"github.com/pdiddy/sysreview/pkg/types"
)

// SurvivorScore ranks a record when two fuzzy duplicates compete. Fields
// compare lexicographically in declaration order; higher wins.
type SurvivorScore struct {
	HasDOI      int // 1 when the normalized DOI is non-empty
	AbstractLen int // abstract length in characters; 0 when missing
	SourceRank  int // len(preferred) - index for a preferred source, else 0
}

// Compare returns -1, 0 or +1 as s ranks below, equal to or above o.
func (s SurvivorScore) Compare(o SurvivorScore) int {
	switch {
	case s.HasDOI != o.HasDOI:
		return sign(s.HasDOI - o.HasDOI)
	case s.AbstractLen != o.AbstractLen:
		return sign(s.AbstractLen - o.AbstractLen)
	default:
		return sign(s.SourceRank - o.SourceRank)
	}
}

func (s SurvivorScore) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.HasDOI, s.AbstractLen, s.SourceRank)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Score computes the survivor score of r. doiNorm is r's normalized DOI.
func Score(r types.Record, doiNorm string, preferred []string) SurvivorScore {
	var s SurvivorScore
	if doiNorm != "" {
		s.HasDOI = 1
	}
	if !missing(r.Abstract) {
		s.AbstractLen = utf8.RuneCountInString(r.Abstract)
	}
	for i, src := range preferred {
		if r.Source == src {
			s.SourceRank = len(preferred) - i
			break
		}
	}
	return s
}

// pickSurvivor returns (keep, drop) for a duplicate pair. a precedes b in
// input order and wins ties.
func pickSurvivor(a, b int, sa, sb SurvivorScore) (keep, drop int) {
	if sa.Compare(sb) >= 0 {
		return a, b
	}
	return b, a
}
