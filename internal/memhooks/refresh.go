package memhooks

import (
	"context"

	"github.com/fyrsmithlabs/memsearch/internal/memrefresh"
)

// RefreshHandler adapts a memrefresh.Controller into a Handler: this is the
// one handler cmd/memsearchd registers for EventTranscriptUpdate.
func RefreshHandler(c *memrefresh.Controller) Handler {
	return func(ctx context.Context, update TranscriptUpdate) error {
		c.OnTranscriptUpdate(ctx, update.SessionID, update.FilePath, update.Immediate)
		return nil
	}
}
