// Package memengine provides the public, injected-owner façade over the
// index, session-summary, query and refresh components: one Engine value
// constructed at startup replaces the module-level caches the original
// retrieval scripts relied on (§9's "From global mutable caches to injected
// owners").
package memengine

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memconfig"
	"github.com/fyrsmithlabs/memsearch/internal/memhooks"
	"github.com/fyrsmithlabs/memsearch/internal/memindex"
	"github.com/fyrsmithlabs/memsearch/internal/memquery"
	"github.com/fyrsmithlabs/memsearch/internal/memrefresh"
	"github.com/fyrsmithlabs/memsearch/internal/memsession"
	"github.com/fyrsmithlabs/memsearch/internal/memusage"
	"github.com/fyrsmithlabs/memsearch/internal/obslog"
	"go.uber.org/zap"
)

const (
	indexFileName   = "inverted-index.json"
	summaryFileName = "sessions-index.json"
)

// snapshot is the immutable view Search reads. Updates build a new
// snapshot and publish it by swapping the pointer under snapMu, the
// in-process analogue of the on-disk write-temp-then-rename discipline
// (§9's "Concurrency primitive").
type snapshot struct {
	idx       *memindex.Index
	summaries map[string]memsession.Summary
	query     *memquery.Engine
}

// Engine is the process-scoped owner of the inverted index, the session
// summary, the query engine and the refresh controller.
type Engine struct {
	cfg    *memconfig.Config
	logger *obslog.Logger

	snapMu sync.RWMutex
	snap   *snapshot

	refresh *memrefresh.Controller
	hooks   *memhooks.Manager
}

// New constructs an Engine from cfg: it loads whatever index and session
// summary already exist on disk (building nothing), wires a query engine
// over them, and wires a refresh controller whose run function performs
// the incremental update-then-publish cycle. Call IndexAll first on a
// fresh IndexDir with no on-disk index yet.
func New(cfg *memconfig.Config, logger *obslog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("memengine: cfg must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("memengine: invalid config: %w", err)
	}
	if logger == nil {
		logger = obslog.FromContext(context.Background())
	}

	snap, err := loadSnapshot(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg, logger: logger, snap: snap}

	e.refresh = memrefresh.New(memrefresh.Config{
		DebounceInterval: cfg.DebounceInterval,
		CooldownInterval: cfg.CooldownInterval,
		QueueCapacity:    cfg.QueueCapacity,
	}, e.runRefresh, logger)

	e.hooks = memhooks.NewManager()
	e.hooks.Register(memhooks.RefreshHandler(e.refresh))

	return e, nil
}

func (e *Engine) indexPath() string   { return filepath.Join(e.cfg.IndexDir, indexFileName) }
func (e *Engine) summaryPath() string { return filepath.Join(e.cfg.IndexDir, summaryFileName) }

func loadSnapshot(cfg *memconfig.Config) (*snapshot, error) {
	idx, err := memindex.Load(filepath.Join(cfg.IndexDir, indexFileName))
	if err != nil {
		return nil, err
	}
	summaryFile, err := memsession.Load(filepath.Join(cfg.IndexDir, summaryFileName))
	if err != nil {
		return nil, err
	}
	summaries := summaryFile.Summaries()

	queryEngine := memquery.NewEngine(idx, summaries, cfg.SessionsDir, cfg.MaxResults, cfg.CoarseCandidateLimit)
	return &snapshot{idx: idx, summaries: summaries, query: queryEngine}, nil
}

func (e *Engine) current() *snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snap
}

func (e *Engine) publish(s *snapshot) {
	e.snapMu.Lock()
	e.snap = s
	e.snapMu.Unlock()
}

// Hooks returns the event hook manager cmd/memsearchd registers external
// hook sources against.
func (e *Engine) Hooks() *memhooks.Manager { return e.hooks }

// Start begins the refresh controller's worker loop.
func (e *Engine) Start() {
	e.refresh.Start()
}

// Close stops the refresh controller, waiting for any in-flight run.
func (e *Engine) Close() error {
	e.refresh.Stop()
	return nil
}

// Watch watches cfg.SessionsDir for transcript writes and feeds them
// through the refresh controller's debounce/cooldown machinery. It blocks
// until ctx is cancelled; callers run it in its own goroutine.
func (e *Engine) Watch(ctx context.Context) error {
	return e.refresh.Watch(ctx, e.cfg.SessionsDir)
}

// Search runs one query against the current snapshot and, if configured,
// appends a scrubbed usage-log entry.
func (e *Engine) Search(ctx context.Context, query string, opts memquery.Options) (memquery.Result, error) {
	result, err := e.current().query.Search(ctx, query, opts)
	if err != nil {
		return result, err
	}

	if e.cfg.UsageLogPath != "" {
		exact := 0
		for _, r := range result.Results {
			if r.ExactPhrase {
				exact++
			}
		}
		if logErr := memusage.AppendUsageLog(e.cfg.UsageLogPath, query, len(result.Results), result.SessionsSearched, exact, time.Now()); logErr != nil {
			e.logger.Warn(ctx, "usage log append failed", zap.Error(logErr))
		}
	}

	return result, nil
}

// IndexAll rebuilds both the inverted index and the session summary from
// scratch over cfg.SessionsDir, persists them, and publishes the new
// snapshot.
func (e *Engine) IndexAll(ctx context.Context) error {
	idx, err := memindex.Build(e.cfg.SessionsDir)
	if err != nil {
		return err
	}
	if err := memindex.Save(idx, e.indexPath()); err != nil {
		return err
	}

	summaries, err := memsession.IndexDir(e.cfg.SessionsDir)
	if err != nil {
		return err
	}
	summaryFile := memsession.ToFile(e.cfg.SessionsDir, e.cfg.SessionsDir, summaries, time.Now())
	if err := memsession.Save(summaryFile, e.summaryPath()); err != nil {
		return err
	}

	queryEngine := memquery.NewEngine(idx, summaries, e.cfg.SessionsDir, e.cfg.MaxResults, e.cfg.CoarseCandidateLimit)
	e.publish(&snapshot{idx: idx, summaries: summaries, query: queryEngine})
	return nil
}

// UpdateSession performs one session's incremental update-then-publish
// cycle (§4.3.2, §9's "injected owners"): acquire the advisory file lock,
// load-update-save the on-disk index, refresh that one session's summary
// entry, then publish a new in-memory snapshot built over the updated
// data. This is the RunFunc the refresh controller invokes.
func (e *Engine) UpdateSession(ctx context.Context, sessionID, transcriptPath string) error {
	if _, err := memindex.UpdateLocked(e.indexPath(), sessionID, transcriptPath, e.cfg.LockTimeout); err != nil {
		return err
	}

	summary, err := memsession.Index(transcriptPath, sessionID)
	if err != nil {
		return err
	}

	summaryFile, err := memsession.Load(e.summaryPath())
	if err != nil {
		return err
	}
	summaries := summaryFile.Summaries()
	summaries[sessionID] = summary
	if err := memsession.Save(memsession.ToFile(e.cfg.SessionsDir, e.cfg.SessionsDir, summaries, time.Now()), e.summaryPath()); err != nil {
		return err
	}

	idx, err := memindex.Load(e.indexPath())
	if err != nil {
		return err
	}
	queryEngine := memquery.NewEngine(idx, summaries, e.cfg.SessionsDir, e.cfg.MaxResults, e.cfg.CoarseCandidateLimit)
	e.publish(&snapshot{idx: idx, summaries: summaries, query: queryEngine})
	return nil
}

func (e *Engine) runRefresh(ctx context.Context, sessionID, path string) error {
	return e.UpdateSession(ctx, sessionID, path)
}
