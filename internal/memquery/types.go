// Package memquery implements the three-tier query engine: an O(1) inverted
// index lookup, a streaming coarse substring pre-filter, and an enhanced
// fuzzy/concept-aware scoring pass, with a full-scan fallback path that
// preserves recall parity when the index can't answer.
package memquery

import (
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memtemporal"
)

// Options controls one Search call. Zero values fall back to the Engine's
// configured defaults.
type Options struct {
	// MaxResults caps the number of ResultRows returned. <= 0 uses the
	// engine default.
	MaxResults int

	// UseThreeTier enables the coarse pre-filter (Tier 2) before Tier 3
	// scoring once candidates exceed CoarseCandidateLimit. Disabling it
	// restores the legacy behavior of scoring the first 40 candidates
	// in index order, used by recall-parity tests (§8, P6).
	UseThreeTier bool

	// CoarseCandidateLimit overrides the engine default threshold above
	// which Tier 2 reorders candidates by coarse score before capping at
	// 40. <= 0 uses the engine default.
	CoarseCandidateLimit int

	// TemporalOverride bypasses the temporal parser entirely when set.
	TemporalOverride *memtemporal.Range

	// Now anchors temporal parsing ("yesterday", "last week"). Zero uses
	// time.Now().
	Now time.Time
}

// ResultRow is one matched message.
type ResultRow struct {
	Session     string
	Role        string
	TextSnippet string
	Timestamp   time.Time
	Date        string
	MatchCount  int
	MatchScore  float64
	ExactPhrase bool
	MatchInfo   []string
}

// DefaultOptions returns the spec's default Options: three-tier mode on,
// engine-configured MaxResults and CoarseCandidateLimit, temporal parsing
// against time.Now(). Mirrors search_with_index's use_three_tier=True
// default — Options's bool zero-value can't express "on by default", so
// callers who want the default behavior should start from this rather than
// a bare Options{}.
func DefaultOptions() Options {
	return Options{UseThreeTier: true}
}

// Result is the outcome of one Search call.
type Result struct {
	Query            string
	Results          []ResultRow
	SessionsSearched int
	SessionsTotal    int
	CandidatesFound  int
	SearchPath       string // "index" or "fallback"
	IndexHit         bool
	Temporal         *memtemporal.Range
	TotalTimeMs      float64
	TierTimesMs      map[string]float64
}
