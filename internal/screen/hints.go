// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// notAvailable marks a hint that found nothing.
const notAvailable = "N/A"

var yearMention = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// YearHint returns the most frequently mentioned year in text. Ties go to
// the year mentioned first.
func YearHint(text string) string {
	counts := make(map[string]int)
	var order []string
	for _, m := range yearMention.FindAllString(text, -1) {
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}
	best := notAvailable
	bestN := 0
	for _, y := range order {
		if counts[y] > bestN {
			best, bestN = y, counts[y]
		}
	}
	return best
}

var (
	ageRange   = regexp.MustCompile(`(?i)\b(?:aged|ages?)\s+(\d{1,2})\s*(?:-|–|—|to)\s*(\d{1,2})\b|\bM\s*=\s*(\d{1,2}(?:\.\d+)?)`)
	ageMean    = regexp.MustCompile(`(?i)\bmean age\s*(?:is\s*)?(\d{1,2}(?:\.\d+)?)\b`)
	ageBetween = regexp.MustCompile(`(?i)\bbetween\s+(\d{1,2})\s+(?:and|to)\s+(\d{1,2})\s+years?\b`)
	ageYears   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*years?\b`)
)

// AgeHints collects participant age mentions ("7–9 years", "~8.5 years
// (mean)", "10 years") as a sorted, semicolon-separated list.
func AgeHints(text string) string {
	found := make(map[string]bool)
	for _, m := range ageRange.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "" && m[2] != "":
			found[m[1]+"–"+m[2]+" years"] = true
		case m[3] != "":
			found["~"+m[3]+" years (mean)"] = true
		}
	}
	for _, m := range ageMean.FindAllStringSubmatch(text, -1) {
		found[m[1]+" years"] = true
	}
	for _, m := range ageBetween.FindAllStringSubmatch(text, -1) {
		found[m[1]+"–"+m[2]+" years"] = true
	}
	for _, m := range ageYears.FindAllStringSubmatch(text, -1) {
		found[m[1]+" years"] = true
	}
	if len(found) == 0 {
		return notAvailable
	}
	ages := make([]string, 0, len(found))
	for a := range found {
		ages = append(ages, a)
	}
	sort.Strings(ages)
	return strings.Join(ages, "; ")
}

// Note is the hint line prepended to the paper text, or "" when neither
// a year nor an age was found.
func Note(text string) string {
	year, ages := YearHint(text), AgeHints(text)
	if year == notAvailable && ages == notAvailable {
		return ""
	}
	return fmt.Sprintf("NOTE: year=%s; ages=%s\n\n", year, ages)
}

// BuildPrompt is the user message for one paper: the hint note and the
// paper text, truncated to maxLen characters.
func BuildPrompt(text string, maxLen int) string {
	return "PAPER TEXT:\n" + Truncate(Note(text)+text, maxLen)
}
