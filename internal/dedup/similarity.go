// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSetRatio scores the similarity of two strings on a 0-100 scale,
// ignoring word order and repeated words. Both strings are lower-cased and
// non-alphanumeric characters become spaces before tokenizing.
//
// The score is the best of three indel ratios: the two sorted difference
// sets against each other, and the sorted intersection against the
// intersection extended by either difference set. When one token set
// contains the other the score is 100.
func TokenSetRatio(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for w := range ta {
		if tb[w] {
			sect = append(sect, w)
		} else {
			diffAB = append(diffAB, w)
		}
	}
	for w := range tb {
		if !ta[w] {
			diffBA = append(diffBA, w)
		}
	}
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}
	sort.Strings(sect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	ab := []rune(strings.Join(diffAB, " "))
	ba := []rune(strings.Join(diffBA, " "))
	sectLen := len([]rune(strings.Join(sect, " ")))
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + len(ab)
	sectBALen := sectLen + sep + len(ba)

	dist := len(ab) + len(ba) - 2*lcsLength(ab, ba)
	best := normalizedRatio(dist, sectABLen+sectBALen)
	if sectLen == 0 {
		return best
	}
	if r := normalizedRatio(sep+len(ab), sectLen+sectABLen); r > best {
		best = r
	}
	if r := normalizedRatio(sep+len(ba), sectLen+sectBALen); r > best {
		best = r
	}
	return best
}

func normalizedRatio(dist, lenSum int) float64 {
	if lenSum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lenSum)
}

func tokenSet(s string) map[string]bool {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	set := make(map[string]bool)
	for _, w := range strings.Fields(clean) {
		set[w] = true
	}
	return set
}

// lcsLength returns the length of the longest common subsequence of a and b
// using a single rolling row.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		diag := 0
		for j := 1; j <= len(b); j++ {
			up := row[j]
			if a[i-1] == b[j-1] {
				row[j] = diag + 1
			} else if row[j-1] > row[j] {
				row[j] = row[j-1]
			}
			diag = up
		}
	}
	return row[len(b)]
}
