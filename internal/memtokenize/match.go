package memtokenize

import "strings"

// MatchOptions toggles the enhanced-match strategies tried in order after
// exact membership (§4.1). Query engine call sites enable all but
// Concepts for the adversarial high-weight-keyword check (§4.4.2).
type MatchOptions struct {
	Substring bool
	Compound  bool
	Fuzzy     bool
	Concepts  bool
}

// AllStrategies enables substring, compound and fuzzy matching but not
// concept expansion — the adversarial-check configuration.
func AllStrategies() MatchOptions {
	return MatchOptions{Substring: true, Compound: true, Fuzzy: true}
}

// AllStrategiesWithConcepts enables every strategy, including concept
// expansion — the normal Tier-3 configuration.
func AllStrategiesWithConcepts() MatchOptions {
	return MatchOptions{Substring: true, Compound: true, Fuzzy: true, Concepts: true}
}

// EnhancedMatch reports whether term matches somewhere in content, trying
// exact token membership, then (as enabled by opts) substring, compound
// split, fuzzy, and concept expansion, in that order. It returns the
// matched term(s) as a trace for result `match_info`.
func EnhancedMatch(term, content string, opts MatchOptions) (bool, []string) {
	termLower := strings.ToLower(strings.TrimSpace(term))
	if termLower == "" {
		return false, nil
	}

	contentTokens := Tokenize(content)

	if _, ok := contentTokens[termLower]; ok {
		return true, []string{termLower}
	}

	if opts.Substring && len(termLower) >= 3 {
		for ct := range contentTokens {
			if strings.Contains(ct, termLower) {
				return true, []string{ct}
			}
		}
	}

	if opts.Compound {
		contentParts := rawSplitPartsLower(content)
		for _, qp := range lowerParts(SplitCompound(term)) {
			if len(qp) < minTokenLen {
				continue
			}
			if _, ok := contentParts[qp]; ok {
				return true, []string{qp}
			}
		}
	}

	if opts.Fuzzy {
		for ct := range contentTokens {
			if fuzzyMatch(termLower, ct) {
				return true, []string{ct}
			}
		}
	}

	if opts.Concepts {
		for _, related := range conceptExpand(termLower) {
			if _, ok := contentTokens[related]; ok {
				return true, []string{related}
			}
		}
	}

	return false, nil
}

// rawSplitPartsLower returns the lowercased compound-split parts of every
// raw token span in text, without the length/stopword filtering Tokenize
// applies — compound matching must see short parts too (e.g. "v2").
func rawSplitPartsLower(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, span := range rawSpan.FindAllString(text, -1) {
		for _, part := range SplitCompound(span) {
			out[strings.ToLower(part)] = struct{}{}
		}
	}
	return out
}

func lowerParts(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.ToLower(p)
	}
	return out
}

// fuzzyMatch implements §4.1's fuzzy strategy: both words length >= 4,
// matching first two characters, length difference and edit distance
// within the effective max (1 for words <= 6 chars, else 2).
func fuzzyMatch(a, b string) bool {
	if len(a) < 4 || len(b) < 4 {
		return false
	}
	if a[:2] != b[:2] {
		return false
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	effMax := 1
	if longest > 6 {
		effMax = 2
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > effMax {
		return false
	}
	return levenshtein(a, b) <= effMax
}
