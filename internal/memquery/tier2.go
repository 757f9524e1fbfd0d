package memquery

import (
	"sort"
	"strings"

	"github.com/fyrsmithlabs/memsearch/internal/memtranscript"
)

// coarseFilter loads each candidate's transcript once, scores it by
// coarseScore, and — only once the candidate count exceeds coarseLimit and
// the caller opted into three-tier mode — reorders by that score before
// capping at 40 (§4.4.2, Tier 2). Below the threshold every candidate
// proceeds to Tier 3 in its existing order, capped at 40.
func (e *Engine) coarseFilter(candidates []string, terms []weightedTerm, coarseLimit int, useThreeTier bool) ([]string, map[string][]memtranscript.Message) {
	type scored struct {
		id    string
		score float64
	}

	loaded := make(map[string][]memtranscript.Message, len(candidates))
	list := make([]scored, 0, len(candidates))
	for _, id := range candidates {
		msgs, err := e.loadMessages(id)
		if err != nil {
			continue
		}
		loaded[id] = msgs
		list = append(list, scored{id: id, score: coarseScore(msgs, terms)})
	}

	if useThreeTier && len(candidates) > coarseLimit {
		sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })
	}
	if len(list) > 40 {
		list = list[:40]
	}

	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.id
	}
	return out, loaded
}

// coarseScore is the fraction of terms (length >= 3) that appear as a
// case-insensitive substring somewhere in the session's messages,
// short-circuiting per term after the first hit (quick_coarse_match).
func coarseScore(msgs []memtranscript.Message, terms []weightedTerm) float64 {
	if len(terms) == 0 {
		return 0
	}
	found := 0
	for _, t := range terms {
		if len(t.term) < 3 {
			continue
		}
		for _, m := range msgs {
			if strings.Contains(strings.ToLower(m.Text()), t.term) {
				found++
				break
			}
		}
	}
	return float64(found) / float64(len(terms))
}
