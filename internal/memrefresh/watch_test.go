package memrefresh

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_TriggersOnTranscriptUpdateOnWrite(t *testing.T) {
	dir := t.TempDir()
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 10 * time.Millisecond, CooldownInterval: time.Millisecond, QueueCapacity: 10}, run, nil)
	c.Start()
	defer c.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Watch(ctx, dir)

	// Give the watcher a moment to register before the write happens.
	time.Sleep(50 * time.Millisecond)
	path := filepath.Join(dir, "s1.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	waitFor(t, 2*time.Second, func() bool { return len(calls()) == 1 })
	assert.Equal(t, []string{"s1"}, calls())
}
