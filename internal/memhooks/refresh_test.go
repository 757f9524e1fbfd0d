package memhooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/memsearch/internal/memrefresh"
)

func TestRefreshHandler_ForwardsImmediateUpdate(t *testing.T) {
	var gotSession, gotPath string
	run := func(ctx context.Context, sessionID, path string) error {
		gotSession, gotPath = sessionID, path
		return nil
	}
	controller := memrefresh.New(memrefresh.Config{}, run, nil)

	m := NewManager()
	m.Register(RefreshHandler(controller))

	require.NoError(t, m.Dispatch(context.Background(), TranscriptUpdate{
		SessionID: "s1",
		FilePath:  "/tmp/s1.jsonl",
		Immediate: true,
	}))

	assert.Equal(t, "s1", gotSession)
	assert.Equal(t, "/tmp/s1.jsonl", gotPath)
}

func TestRefreshHandler_NonImmediateGoesThroughDebounce(t *testing.T) {
	done := make(chan struct{}, 1)
	run := func(ctx context.Context, sessionID, path string) error {
		done <- struct{}{}
		return nil
	}
	controller := memrefresh.New(memrefresh.Config{DebounceInterval: 10 * time.Millisecond, CooldownInterval: time.Millisecond, QueueCapacity: 10}, run, nil)
	controller.Start()
	defer controller.Stop()

	m := NewManager()
	m.Register(RefreshHandler(controller))

	require.NoError(t, m.Dispatch(context.Background(), TranscriptUpdate{SessionID: "s1", FilePath: "/tmp/s1.jsonl"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected refresh run within debounce window")
	}
}
