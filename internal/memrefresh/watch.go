package memrefresh

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch adds an fsnotify watch on dir and calls OnTranscriptUpdate directly
// on write events, so transcript growth is observed without an external
// poll loop (§4.5's "Watched mode", supplemental). It blocks until ctx is
// cancelled or the watcher errors out closing its channel, so callers
// should run it in its own goroutine. This is additive to, and funnels
// through, the same debounce/cooldown machinery as the polled and
// hook-driven paths — fsnotify only decides when to call
// OnTranscriptUpdate, never bypasses it.
func (c *Controller) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != ".jsonl" {
				continue
			}
			sessionID := sessionIDFromPath(event.Name)
			c.OnTranscriptUpdate(ctx, sessionID, event.Name, false)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn(ctx, "refresh watcher error", zap.Error(err))
		}
	}
}
