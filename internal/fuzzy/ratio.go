package fuzzy

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a similarity score between 0 and 100 for two strings,
// case-insensitive. 100 means identical, 0 means nothing in common.
func Ratio(a, b string) int {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return (longest - dist) * 100 / longest
}
