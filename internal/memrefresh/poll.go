package memrefresh

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Poll implements the polled mode used by tool-event hooks (§4.5): given
// a transcript path, check its mtime; if it advanced past the last
// observed value and both debounce and cooldown have elapsed, run the
// session indexer once, synchronously. Unlike OnTranscriptUpdate, a single
// Poll call either runs immediately or does nothing — there is no pending
// timer to wait on, since the hook call itself is the periodic tick.
func (c *Controller) Poll(ctx context.Context, sessionID, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	mtime := info.ModTime()

	state := c.sessionFor(sessionID)

	state.mu.Lock()
	advanced := mtime.After(state.lastObservedMtime)
	debounceElapsed := time.Since(state.lastObservedMtime) >= c.cfg.DebounceInterval
	cooldownElapsed := time.Since(state.lastRunTime) >= c.cfg.CooldownInterval
	if advanced {
		state.lastObservedMtime = mtime
	}
	state.mu.Unlock()

	if !advanced || !debounceElapsed || !cooldownElapsed {
		return nil
	}

	state.runMu.Lock()
	defer state.runMu.Unlock()
	c.execute(ctx, sessionID, path)
	return nil
}

// PollDir stats every session transcript directly under dir and Polls each
// one whose filename stem looks like a session id (matching the
// transcript-file naming IndexDir/ParseDir already rely on: "*.jsonl").
func (c *Controller) PollDir(ctx context.Context, dir string) error {
	entries, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return err
	}
	for _, path := range entries {
		sessionID := sessionIDFromPath(path)
		if err := c.Poll(ctx, sessionID, path); err != nil {
			c.logger.Warn(ctx, "poll failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return nil
}

func sessionIDFromPath(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
