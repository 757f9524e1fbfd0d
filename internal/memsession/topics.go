package memsession

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/fyrsmithlabs/memsearch/internal/memtokenize"
)

// maxTopics is the ceiling on topics kept per session (spec §6: "Topics are
// <= 12 canonical forms").
const maxTopics = 12

// wordSpan matches a maximal alphanumeric-plus-hyphen/underscore span at
// least three characters long, preserving original case so proper nouns
// and acronyms can be detected before lowercasing.
var wordSpan = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]{2,}`)

type wordInfo struct {
	original string
	count    int
	proper   bool
}

// ScoreTopics extracts the top topic tokens from the combined text of a
// session's messages, favoring proper nouns, compound (hyphen/underscore)
// forms, and tokens containing digits over plain frequency. Ported from
// index-sessions.py's extract_topics.
func ScoreTopics(texts []string) []string {
	combined := strings.Join(texts, "\n")
	words := make(map[string]*wordInfo)

	for _, w := range wordSpan.FindAllString(combined, -1) {
		lower := strings.ToLower(w)
		if memtokenize.IsStopword(lower) || len(lower) < 3 {
			continue
		}

		proper := isProperOrTechnical(w, lower)

		if info, ok := words[lower]; ok {
			info.count++
			if proper && !info.proper {
				info.original = w
				info.proper = true
			}
		} else {
			words[lower] = &wordInfo{original: w, count: 1, proper: proper}
		}
	}

	type scored struct {
		term   string
		score  float64
		proper bool
	}
	var all []scored
	for lower, info := range words {
		score := float64(info.count)
		if info.proper {
			score *= 5.0
		}
		if len(lower) >= 6 {
			score *= 1.5
		}
		if strings.ContainsAny(lower, "-_") {
			score *= 2.0
		}
		if containsDigit(lower) {
			score *= 1.5
		}
		all = append(all, scored{term: lower, score: score, proper: info.proper})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].term < all[j].term
	})

	var properNouns, other []string
	for _, s := range all {
		if s.proper && len(properNouns) < 5 {
			properNouns = append(properNouns, s.term)
		} else if !s.proper && len(other) < 10 {
			other = append(other, s.term)
		}
	}

	result := append([]string{}, properNouns...)
	seen := make(map[string]struct{}, len(result))
	for _, r := range result {
		seen[r] = struct{}{}
	}
	for _, o := range other {
		if len(result) >= maxTopics {
			break
		}
		if _, dup := seen[o]; dup {
			continue
		}
		result = append(result, o)
		seen[o] = struct{}{}
	}

	if len(result) > maxTopics {
		result = result[:maxTopics]
	}
	return result
}

// isProperOrTechnical detects words that read as proper nouns, acronyms, or
// technical terms rather than ordinary prose: all-caps acronyms (WLXC),
// PascalCase (PostgreSQL), short all-lowercase technical words (wlxc, npm),
// compound hyphen/underscore forms, and versioned/digit-bearing forms.
func isProperOrTechnical(word, lower string) bool {
	if isAllUpper(word) && len(word) >= 2 {
		return true
	}
	if len(word) > 1 && isUpperAt(word, 0) && hasLower(word) {
		return true
	}
	if camelCasePattern.MatchString(word) {
		return true
	}
	if len(word) >= 4 && len(word) <= 6 && isAllLower(word) && isAlnum(word) {
		return true
	}
	if strings.ContainsAny(word, "-_") {
		return true
	}
	if containsDigit(word) {
		return true
	}
	_ = lower
	return false
}

// camelCasePattern matches an initial capital followed by lowercase then
// another capital, e.g. ChessRT.
var camelCasePattern = regexp.MustCompile(`^[A-Z][a-z]+[A-Z]`)

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isAllLower(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func isUpperAt(s string, i int) bool {
	r := []rune(s)
	return i < len(r) && unicode.IsUpper(r[i])
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
