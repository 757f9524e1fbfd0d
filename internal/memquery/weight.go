package memquery

import (
	"sort"
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/memsearch/internal/memtokenize"
)

// weightedTerm is one query keyword with its retrieval weight, ported from
// temporal_search.py's (word, weight) tuples.
type weightedTerm struct {
	term   string
	weight float64
}

// normalizeQuery implements §4.4.1's weighted keyword extraction: tokenize
// the raw query (preserving case, so CamelCase/Capitalized detection still
// works), discard stopwords and sub-3-char words, weight what remains, and
// keep the five highest-weighted terms, ties broken by first appearance.
func normalizeQuery(query string) []weightedTerm {
	words := memtokenize.TokenizeOrdered(query)

	type candidate struct {
		term   string
		weight float64
		order  int
	}
	var candidates []candidate
	for i, w := range words {
		lower := strings.ToLower(w)
		if len(lower) < 3 || memtokenize.IsStopword(lower) {
			continue
		}
		candidates = append(candidates, candidate{term: lower, weight: wordWeight(w), order: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	out := make([]weightedTerm, len(candidates))
	for i, c := range candidates {
		out[i] = weightedTerm{term: c.term, weight: c.weight}
	}
	return out
}

// wordWeight assigns a retrieval weight to a raw (cased) query word, ported
// from get_word_weight: common words are down-weighted, short or ordinary
// words get a small bump, and technical-looking forms — digits, hyphens,
// underscores, CamelCase, or a short all-lowercase word that reads like a
// project name — are weighted highest.
func wordWeight(word string) float64 {
	lower := strings.ToLower(word)

	if memtokenize.IsStopword(lower) {
		return 0.3
	}
	if len(lower) <= 3 {
		return 0.5
	}
	if containsDigitUnderscoreHyphen(word) {
		return 2.0
	}
	if hasCamelBoundary(word) || startsUpper(word) {
		return 1.5
	}
	if len(lower) >= 4 && len(lower) <= 6 && isAllLower(word) {
		return 1.5
	}
	return 1.0
}

func containsDigitUnderscoreHyphen(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) || r == '_' || r == '-' {
			return true
		}
	}
	return false
}

// hasCamelBoundary reports a lowercase-then-uppercase transition anywhere
// in s, e.g. "chessRT".
func hasCamelBoundary(s string) bool {
	runes := []rune(s)
	for i := 1; i < len(runes); i++ {
		if unicode.IsLower(runes[i-1]) && unicode.IsUpper(runes[i]) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	runes := []rune(s)
	return len(runes) > 0 && unicode.IsUpper(runes[0])
}

func isAllLower(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
