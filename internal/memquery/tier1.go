package memquery

import (
	"sort"

	"github.com/fyrsmithlabs/memsearch/internal/memtemporal"
	"github.com/fyrsmithlabs/memsearch/internal/memtokenize"
)

// tier1 performs the index-lookup stage (§4.4.2, Tier 1): tokenize the
// query with the same Tokenize function used at build time (P4, rather than
// temporal_search.py's unsplit tokenize_query — keeping the two in lockstep
// is what makes index lookups correct against compound-split postings),
// intersect the posting sets, fall back to the union if the intersection is
// empty, and apply the temporal filter if one is active.
func (e *Engine) tier1(query string, temporalRange *memtemporal.Range) (candidates, matchedTokens []string, hadHit bool) {
	tokens := memtokenize.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil, false
	}

	var sets []map[string]struct{}
	for token := range tokens {
		postings, ok := e.idx.Terms[token]
		if !ok || len(postings) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(postings))
		for _, p := range postings {
			set[p.Session] = struct{}{}
		}
		sets = append(sets, set)
		matchedTokens = append(matchedTokens, token)
	}
	if len(sets) == 0 {
		return nil, nil, false
	}
	hadHit = true

	candidates = intersectSets(sets)
	if len(candidates) == 0 {
		candidates = unionSets(sets)
	}

	if temporalRange != nil && len(candidates) > 0 {
		start := temporalRange.Start.Format("2006-01-02")
		end := temporalRange.End.Format("2006-01-02")
		dates := make(map[string]string, len(candidates))
		for _, id := range candidates {
			if s, ok := e.summaries[id]; ok {
				dates[id] = s.Date
			}
		}
		if filtered := memtemporal.FilterSessionsByDate(dates, start, end); len(filtered) > 0 {
			candidates = filtered
		}
	}

	sort.Strings(candidates)
	return candidates, matchedTokens, hadHit
}

// intersectSets computes the intersection of all sets, starting from the
// smallest for efficiency (intersect_posting_lists).
func intersectSets(sets []map[string]struct{}) []string {
	if len(sets) == 0 {
		return nil
	}
	if len(sets) == 1 {
		return keysOf(sets[0])
	}

	ordered := append([]map[string]struct{}{}, sets...)
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) < len(ordered[j]) })

	result := make(map[string]struct{}, len(ordered[0]))
	for k := range ordered[0] {
		result[k] = struct{}{}
	}
	for _, s := range ordered[1:] {
		for k := range result {
			if _, ok := s[k]; !ok {
				delete(result, k)
			}
		}
		if len(result) == 0 {
			break
		}
	}
	return keysOf(result)
}

func unionSets(sets []map[string]struct{}) []string {
	result := make(map[string]struct{})
	for _, s := range sets {
		for k := range s {
			result[k] = struct{}{}
		}
	}
	return keysOf(result)
}

func keysOf(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
