package memquery

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memindex"
	"github.com/fyrsmithlabs/memsearch/internal/memsession"
	"github.com/fyrsmithlabs/memsearch/internal/memtemporal"
	"github.com/fyrsmithlabs/memsearch/internal/memtranscript"
	"github.com/fyrsmithlabs/memsearch/internal/obslog"
)

// Engine answers searches against a loaded inverted index and session
// summary snapshot, re-reading the relevant transcripts from sessionsDir
// for Tier 2/3 scoring. It holds no lock: callers are expected to reload
// (or swap) the snapshot on refresh, the way §5's injected-owner model
// separates the updater's exclusive write path from the engine's read-only
// path.
type Engine struct {
	idx         *memindex.Index
	summaries   map[string]memsession.Summary
	sessionsDir string
	maxResults  int
	coarseLimit int
	metrics     *obslog.TierMetrics
}

// NewEngine constructs an Engine over an already-loaded index and session
// summary map. maxResults and coarseCandidateLimit <= 0 fall back to the
// spec defaults (10 and 30, matching memconfig's defaults()).
func NewEngine(idx *memindex.Index, summaries map[string]memsession.Summary, sessionsDir string, maxResults, coarseCandidateLimit int) *Engine {
	if maxResults <= 0 {
		maxResults = 10
	}
	if coarseCandidateLimit <= 0 {
		coarseCandidateLimit = 30
	}
	return &Engine{
		idx:         idx,
		summaries:   summaries,
		sessionsDir: sessionsDir,
		maxResults:  maxResults,
		coarseLimit: coarseCandidateLimit,
	}
}

// SetMetrics wires an OTEL tier-timing recorder. A nil argument (or never
// calling this) keeps every recording call a no-op, the same optionality
// pkg/prefetch.Executor.SetMetrics offers.
func (e *Engine) SetMetrics(m *obslog.TierMetrics) {
	e.metrics = m
}

// Search runs the full three-tier pipeline for query, falling back to a
// full scan when the index produces no candidates (§4.4.3).
func (e *Engine) Search(ctx context.Context, query string, opts Options) (Result, error) {
	overallStart := time.Now()

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = e.maxResults
	}
	coarseLimit := opts.CoarseCandidateLimit
	if coarseLimit <= 0 {
		coarseLimit = e.coarseLimit
	}
	ref := opts.Now
	if ref.IsZero() {
		ref = time.Now()
	}

	var temporalRange *memtemporal.Range
	if opts.TemporalOverride != nil {
		temporalRange = opts.TemporalOverride
	} else if m, ok := memtemporal.Parse(query, ref); ok {
		temporalRange = &m.Range
	}

	terms := normalizeQuery(query)

	result := Result{
		Query:         query,
		Temporal:      temporalRange,
		TierTimesMs:   make(map[string]float64),
		SessionsTotal: len(e.summaries),
	}

	tier1Start := time.Now()
	candidates, _, hadHit := e.tier1(query, temporalRange)
	result.TierTimesMs["tier1_index_ms"] = elapsedMs(tier1Start)
	e.metrics.RecordTier1(ctx, result.TierTimesMs["tier1_index_ms"])

	searchPath := "index"
	if !hadHit || len(candidates) == 0 {
		searchPath = "fallback"
		candidates = e.fallbackCandidates(temporalRange)
	}
	result.IndexHit = hadHit
	result.SearchPath = searchPath
	result.CandidatesFound = len(candidates)

	if len(candidates) == 0 || len(terms) == 0 {
		result.TotalTimeMs = elapsedMs(overallStart)
		e.metrics.RecordTotal(ctx, result.TotalTimeMs)
		return result, nil
	}

	tier2Start := time.Now()
	searchCandidates, loaded := e.coarseFilter(candidates, terms, coarseLimit, opts.UseThreeTier)
	result.TierTimesMs["tier2_search_ms"] = elapsedMs(tier2Start)
	e.metrics.RecordTier2(ctx, result.TierTimesMs["tier2_search_ms"])
	result.SessionsSearched = len(searchCandidates)

	tier3Start := time.Now()
	var rows []ResultRow
	for _, id := range searchCandidates {
		rows = append(rows, e.tier3(id, loaded[id], terms, query, e.summaries[id])...)
	}
	result.TierTimesMs["tier3_search_ms"] = elapsedMs(tier3Start)
	e.metrics.RecordTier3(ctx, result.TierTimesMs["tier3_search_ms"])

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].MatchScore > rows[j].MatchScore })
	if len(rows) > maxResults {
		rows = rows[:maxResults]
	}
	result.Results = rows

	result.TotalTimeMs = elapsedMs(overallStart)
	e.metrics.RecordTotal(ctx, result.TotalTimeMs)
	return result, nil
}

func (e *Engine) loadMessages(sessionID string) ([]memtranscript.Message, error) {
	path := filepath.Join(e.sessionsDir, sessionID+".jsonl")
	return memtranscript.ParseFile(path)
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
