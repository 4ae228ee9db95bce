// Package similarity scores how alike two taxonomy labels are.
//
// Scores are in [0,1]:
//
//	similarity.Score("RedTeam", "RedTeam")  // 1.0, exact
//	similarity.Score("RedTeam", "red team") // 0.95, case/space drift only
//	similarity.Score("RedTeam", "RedTeem")  // 1 - 1/7, edit distance
//
// Lengths are counted in runes, so a one-character typo in a four-character
// CJK label costs the same as in a four-letter Latin one.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/skillmatrix/pkg/constants"
)

// Score returns the normalized similarity of a and b.
func Score(a, b string) float64 {
	if a == b {
		return constants.ExactMatchScore
	}

	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return constants.NormalizedMatchScore
	}

	ra, rb := []rune(na), []rune(nb)
	longer := max(len(ra), len(rb))
	if longer == 0 {
		return constants.ExactMatchScore
	}

	return 1 - float64(distance(ra, rb))/float64(longer)
}

// Normalize trims, lower-cases and removes every whitespace rune,
// including the ideographic space U+3000.
func Normalize(s string) string {
	lowered := cases.Lower(language.Und).String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}

// Distance returns the Levenshtein edit distance between a and b in runes.
func Distance(a, b string) int {
	return distance([]rune(a), []rune(b))
}

func distance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, ca := range a {
		curr[0] = i + 1
		for j, cb := range b {
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(curr[j]+1, prev[j+1]+1, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
