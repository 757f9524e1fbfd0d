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

func TestPoll_RunsOnMtimeAdvance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 0, CooldownInterval: 0}, run, nil)

	require.NoError(t, c.Poll(context.Background(), "s1", path))
	assert.Equal(t, []string{"s1"}, calls())
}

func TestPoll_NoOpWhenFileMissing(t *testing.T) {
	run, calls := recordingRun(t)
	c := New(Config{}, run, nil)

	require.NoError(t, c.Poll(context.Background(), "ghost", "/no/such/file.jsonl"))
	assert.Empty(t, calls())
}

func TestPoll_SkipsWithinCooldown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s1.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))

	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: time.Microsecond, CooldownInterval: time.Hour}, run, nil)

	require.NoError(t, c.Poll(context.Background(), "s1", path))
	require.Len(t, calls(), 1)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("{}\n{}\n"), 0o600))
	require.NoError(t, c.Poll(context.Background(), "s1", path))
	assert.Len(t, calls(), 1)
}

func TestPollDir_RunsEachSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1.jsonl"), []byte("{}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s2.jsonl"), []byte("{}\n"), 0o600))

	run, calls := recordingRun(t)
	c := New(Config{DebounceInterval: 0, CooldownInterval: 0}, run, nil)

	require.NoError(t, c.PollDir(context.Background(), dir))
	assert.ElementsMatch(t, []string{"s1", "s2"}, calls())
}
