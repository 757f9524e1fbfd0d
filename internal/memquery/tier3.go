package memquery

import (
	"strings"

	"github.com/fyrsmithlabs/memsearch/internal/memsession"
	"github.com/fyrsmithlabs/memsearch/internal/memtokenize"
	"github.com/fyrsmithlabs/memsearch/internal/memtranscript"
)

// maxResultsPerSession bounds how many rows one session may contribute
// (search_session_content's max_results=3).
const maxResultsPerSession = 3

// tier3 re-scans a session's messages with the enhanced matcher, applying
// the adversarial high-weight-keyword guard, the exact-phrase bonus, and
// the coverage bonus (§4.4.2, Tier 3).
func (e *Engine) tier3(sessionID string, msgs []memtranscript.Message, terms []weightedTerm, originalQuery string, summary memsession.Summary) []ResultRow {
	if len(terms) == 0 {
		return nil
	}

	keywords := make([]string, len(terms))
	weights := make(map[string]float64, len(terms))
	var highWeight []string
	for i, t := range terms {
		keywords[i] = t.term
		weights[t.term] = t.weight
		if t.weight > 1.0 {
			highWeight = append(highWeight, t.term)
		}
	}

	normalizedQuery := normalizeWhitespace(originalQuery)

	var rows []ResultRow
	for _, msg := range msgs {
		text := msg.Text()
		if text == "" {
			continue
		}

		matchCount := 0
		weightedScore := 0.0
		var matchInfo []string

		for _, kw := range keywords {
			matched, trace := memtokenize.EnhancedMatch(kw, text, memtokenize.AllStrategiesWithConcepts())
			if !matched {
				continue
			}
			matchCount++
			weightedScore += weights[kw]
			if len(trace) > 2 {
				trace = trace[:2]
			}
			matchInfo = append(matchInfo, trace...)
		}

		exactPhrase := normalizedQuery != "" && strings.Contains(normalizeWhitespace(text), normalizedQuery)
		exactPhraseBonus := 0.0
		if exactPhrase {
			exactPhraseBonus = 10.0
			matchInfo = append([]string{"EXACT_PHRASE"}, matchInfo...)
		}

		if len(highWeight) > 0 {
			direct := false
			for _, kw := range highWeight {
				if ok, _ := memtokenize.EnhancedMatch(kw, text, memtokenize.AllStrategies()); ok {
					direct = true
					break
				}
			}
			if !direct {
				continue
			}
		}

		if matchCount < 1 {
			continue
		}

		coverageBonus := (float64(matchCount) / float64(len(keywords))) * 5.0
		finalScore := weightedScore + exactPhraseBonus + coverageBonus

		if len(matchInfo) > 3 {
			matchInfo = matchInfo[:3]
		}

		rows = append(rows, ResultRow{
			Session:     sessionID,
			Role:        string(msg.Role),
			TextSnippet: extractSnippet(text, keywords, 500),
			Timestamp:   msg.Timestamp,
			Date:        summary.Date,
			MatchCount:  matchCount,
			MatchScore:  finalScore,
			ExactPhrase: exactPhrase,
			MatchInfo:   matchInfo,
		})

		if len(rows) >= maxResultsPerSession {
			break
		}
	}
	return rows
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// extractSnippet centers a snippet on the earliest keyword occurrence,
// with 100 chars of context before and 400 after, falling back to the
// start of the text when no keyword is found (extract_relevant_snippet).
func extractSnippet(text string, keywords []string, maxLen int) string {
	lower := strings.ToLower(text)
	bestPos := len(text)
	for _, kw := range keywords {
		pos := strings.Index(lower, kw)
		if pos != -1 && pos < bestPos {
			bestPos = pos
		}
	}

	if bestPos == len(text) {
		if len(text) > maxLen {
			return text[:maxLen] + "..."
		}
		return text
	}

	start := bestPos - 100
	if start < 0 {
		start = 0
	}
	end := bestPos + 400
	if end > len(text) {
		end = len(text)
	}

	snippet := text[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}
