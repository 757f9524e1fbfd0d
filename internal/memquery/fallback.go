package memquery

import (
	"sort"

	"github.com/fyrsmithlabs/memsearch/internal/memtemporal"
)

// fallbackCandidateLimit bounds the full-scan path the way
// get_recent_sessions's limit=10 bounds the Python reference — widened to
// 30 here to match run_benchmark's actual call sites, which always pass the
// top-30 recency window for the no-temporal-filter case.
const fallbackCandidateLimit = 30

// fallbackCandidates returns the sessions the fallback path should scan
// when the index step produced no usable candidates (§4.4.3): the
// temporally-filtered set if a range is active, otherwise the most
// recently active sessions.
func (e *Engine) fallbackCandidates(temporalRange *memtemporal.Range) []string {
	if temporalRange != nil {
		dates := make(map[string]string, len(e.summaries))
		for id, s := range e.summaries {
			dates[id] = s.Date
		}
		ids := memtemporal.FilterSessionsByDate(dates, temporalRange.Start.Format("2006-01-02"), temporalRange.End.Format("2006-01-02"))
		sort.Strings(ids)
		return ids
	}

	ids := make([]string, 0, len(e.summaries))
	for id := range e.summaries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, tj := e.summaries[ids[i]].Timestamp, e.summaries[ids[j]].Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ids[i] < ids[j]
	})
	if len(ids) > fallbackCandidateLimit {
		ids = ids[:fallbackCandidateLimit]
	}
	return ids
}
