// Package memtokenize normalizes transcript and query text into searchable
// tokens, and provides the enhanced (substring/compound/fuzzy/concept)
// matcher the query engine uses once candidates are down to a handful of
// sessions. Tokenization is shared verbatim between index time and query
// time (P4): both call Tokenize.
package memtokenize

import (
	"regexp"
	"strings"
)

// minTokenLen is the minimum length a token must have to be indexed or
// matched against; see spec §4.1.
const minTokenLen = 3

// rawSpan matches a maximal span of letters, digits, underscore and
// hyphen starting with a letter.
var rawSpan = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]*`)

// Tokenize extracts the set of searchable tokens from text. It lowercases
// and splits on '-'/'_' separators, emitting each separator-delimited
// piece whole alongside its case-boundary split parts, and drops
// stopwords and short tokens.
//
// Emitting the whole piece (not just its camelCase/acronym split parts)
// matters for compounds like "ChessRT": splitting alone yields "chess" +
// "rt", and "rt" is dropped for being under the length floor, so the
// token "chessrt" itself would never be indexed and a literal "chessrt"
// query would miss (scenario 1). The original tokenizer lowercases the
// whole text before ever applying its case-boundary regex, which makes
// that split a no-op and leaves "chessrt" intact; emitting the whole
// piece here reproduces that outcome while still keeping the split parts
// for matches like "ReadMessageItem" -> "read"/"message"/"item".
func Tokenize(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, span := range rawSpan.FindAllString(text, -1) {
		for _, piece := range strings.FieldsFunc(span, func(r rune) bool {
			return r == '-' || r == '_'
		}) {
			emitToken(out, piece)
			for _, part := range splitCase(piece) {
				emitToken(out, part)
			}
		}
	}
	return out
}

// emitToken lowercases s and adds it to out iff it meets the length floor
// and isn't a stopword.
func emitToken(out map[string]struct{}, s string) {
	lower := strings.ToLower(s)
	if len(lower) < minTokenLen {
		return
	}
	if _, stop := stopwords[lower]; stop {
		return
	}
	out[lower] = struct{}{}
}

// TokenizeOrdered is like Tokenize but returns parts in the order
// encountered, without lowercasing or stopword/length filtering — used by
// topic extraction, which needs the original surface form to detect
// proper nouns.
func TokenizeOrdered(text string) []string {
	return rawSpan.FindAllString(text, -1)
}

// SplitCompound splits a raw token on '-'/'_' separators, then at
// lowercase→uppercase and acronym→word boundaries (ABCDef -> ABC, Def),
// returning the ordered parts with original casing preserved.
func SplitCompound(word string) []string {
	var separated []string
	for _, piece := range strings.FieldsFunc(word, func(r rune) bool {
		return r == '-' || r == '_'
	}) {
		separated = append(separated, splitCase(piece)...)
	}
	return separated
}

// splitCase splits a single hyphen/underscore-free run on case boundaries:
// lower->upper (camelCase -> camel, Case) and acronym->word (ABCDef ->
// ABC, Def).
func splitCase(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := isLower(prev) && isUpper(cur)
		// Acronym boundary: an uppercase run followed by Upper+lower
		// (the start of a new word), e.g. ABCDef -> ABC | Def.
		acronymBoundary := isUpper(prev) && isUpper(cur) && i+1 < len(runes) && isLower(runes[i+1])
		if lowerToUpper || acronymBoundary {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	parts = append(parts, string(runes[start:]))
	return parts
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
