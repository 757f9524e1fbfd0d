package memrefresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingRun(t *testing.T) (RunFunc, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var calls []string
	return func(ctx context.Context, sessionID, path string) error {
			mu.Lock()
			calls = append(calls, sessionID)
			mu.Unlock()
			return nil
		}, func() []string {
			mu.Lock()
			defer mu.Unlock()
			out := make([]string, len(calls))
			copy(out, calls)
			return out
		}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, cond(), "condition not met within %s", timeout)
}

func TestOnTranscriptUpdate_ImmediateRunsSynchronously(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: time.Hour, CooldownInterval: time.Hour}, run, nil)

	c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", true)
	assert.Equal(t, []string{"s1"}, calls())
}

func TestOnTranscriptUpdate_DebouncedRunFiresAfterWindow(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 20 * time.Millisecond, CooldownInterval: time.Millisecond, QueueCapacity: 10}, run, nil)
	c.Start()
	defer c.Stop()

	c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", false)
	waitFor(t, time.Second, func() bool { return len(calls()) == 1 })
}

func TestOnTranscriptUpdate_ResetsDebounceOnRepeatedCalls(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 50 * time.Millisecond, CooldownInterval: time.Millisecond, QueueCapacity: 10}, run, nil)
	c.Start()
	defer c.Stop()

	for i := 0; i < 3; i++ {
		c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", false)
		time.Sleep(20 * time.Millisecond)
	}
	// Only the last call's debounce window should have been allowed to
	// elapse; give it time to fire, then assert exactly one run happened.
	waitFor(t, time.Second, func() bool { return len(calls()) == 1 })
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"s1"}, calls())
}

func TestOnTranscriptUpdate_CooldownDefersSecondRun(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 5 * time.Millisecond, CooldownInterval: 100 * time.Millisecond, QueueCapacity: 10}, run, nil)
	c.Start()
	defer c.Stop()

	c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", false)
	waitFor(t, time.Second, func() bool { return len(calls()) == 1 })

	start := time.Now()
	c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", false)
	waitFor(t, time.Second, func() bool { return len(calls()) == 2 })
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestOnTranscriptUpdate_PerSessionIndependence(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 10 * time.Millisecond, CooldownInterval: time.Millisecond, QueueCapacity: 10}, run, nil)
	c.Start()
	defer c.Stop()

	c.OnTranscriptUpdate(context.Background(), "s1", "/tmp/s1.jsonl", false)
	c.OnTranscriptUpdate(context.Background(), "s2", "/tmp/s2.jsonl", false)
	waitFor(t, time.Second, func() bool { return len(calls()) == 2 })
	assert.ElementsMatch(t, []string{"s1", "s2"}, calls())
}

func TestEnqueue_DropsOldestOnOverflow(t *testing.T) {
	run, _ := recordingRun(t)
	c := New(Config{QueueCapacity: 2}, run, nil)

	c.enqueue(job{sessionID: "a"})
	c.enqueue(job{sessionID: "b"})
	c.enqueue(job{sessionID: "c"})

	c.mu.Lock()
	defer c.mu.Unlock()
	require.Len(t, c.queue, 2)
	assert.Equal(t, "b", c.queue[0].sessionID)
	assert.Equal(t, "c", c.queue[1].sessionID)
}
