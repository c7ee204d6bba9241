package matcher

import (
	"math"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two descriptions between 0 and 1. It averages the
// edit-distance ratio of the whole strings with the overlap of their
// word sets, both case-insensitive.
func Similarity(a, b string) float64 {
	a = normalize(a)
	b = normalize(b)
	if a == "" || b == "" {
		return 0
	}
	score := (editRatio(a, b) + tokenOverlap(a, b)) / 2
	return math.Round(score*1e4) / 1e4
}

func normalize(s string) string {
	return strings.Join(tokens(s), " ")
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func editRatio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// tokenOverlap is the Jaccard index of the word sets.
func tokenOverlap(a, b string) float64 {
	set := make(map[string]bool)
	for _, t := range tokens(a) {
		set[t] = true
	}
	inter, union := 0, len(set)
	seen := make(map[string]bool)
	for _, t := range tokens(b) {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
