package memindex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, dir, sessionID string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, sessionID+".jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func userLine(text string) string {
	return `{"type":"user","message":{"role":"user","content":"` + text + `"}}`
}

// scenario 1: basic indexing.
func TestBuild_BasicIndexing(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "A", userLine("Glicko-2 rating system for ChessRT leaderboard"))

	idx, err := Build(dir)
	require.NoError(t, err)

	for _, term := range []string{"glicko", "rating", "chessrt"} {
		postings, ok := idx.Terms[term]
		require.Truef(t, ok, "expected term %q", term)
		require.Len(t, postings, 1)
		assert.Equal(t, "A", postings[0].Session)
		assert.Equal(t, 0, postings[0].MsgIdx)
	}
	_, has2 := idx.Terms["2"]
	assert.False(t, has2, "single-char token must be absent")
}

// scenario 2: incremental append is additive and idempotent.
func TestUpdate_IncrementalAppendThenNoop(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "A", userLine("Glicko-2 rating system for ChessRT leaderboard"))

	idx, err := Build(dir)
	require.NoError(t, err)

	appendLine(t, path, userLine("Discussed containerd runtime for wlxc"))

	res, err := Update(idx, "A", path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.MessagesAdded)

	for _, term := range []string{"containerd", "runtime", "wlxc"} {
		postings, ok := idx.Terms[term]
		require.Truef(t, ok, "expected term %q", term)
		assert.Len(t, postings, 1)
	}
	assert.Equal(t, 1, idx.Sessions["A"].LastMsgIdx)
	assert.Equal(t, 2, idx.Sessions["A"].MessageCount)

	// Re-running with no new messages must be a no-op.
	res2, err := Update(idx, "A", path)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.MessagesAdded)
	assert.Equal(t, 0, res2.TokensAdded)
	assert.Len(t, idx.Terms["wlxc"], 1)
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
}

func TestBuild_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "A", userLine("alpha beta gamma"))
	writeSession(t, dir, "B", userLine("delta epsilon zeta"))

	idx1, err := Build(dir)
	require.NoError(t, err)
	idx2, err := Build(dir)
	require.NoError(t, err)

	assert.Equal(t, idx1.Terms, idx2.Terms)
	assert.Equal(t, idx1.TotalTerms, idx2.TotalTerms)
	assert.Equal(t, idx1.TotalMessages, idx2.TotalMessages)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "A", userLine("alpha beta gamma"))
	idx, err := Build(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "inverted-index.json")
	require.NoError(t, Save(idx, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, idx.Terms, loaded.Terms)
	assert.Equal(t, idx.TotalMessages, loaded.TotalMessages)
	assert.Equal(t, idx.Sessions, loaded.Sessions)
}

func TestLoad_MissingFileReturnsEmptyIndex(t *testing.T) {
	dir := t.TempDir()
	idx, err := Load(filepath.Join(dir, "does-not-exist.json"))
	require.NoError(t, err)
	assert.Empty(t, idx.Terms)
	assert.Empty(t, idx.Sessions)
}

func TestUpdate_RejectsNoNewMessageIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "A", userLine("alpha beta gamma"))
	idx, err := Build(dir)
	require.NoError(t, err)

	// Re-running update on an unmodified transcript must add nothing.
	res, err := Update(idx, "A", path)
	require.NoError(t, err)
	assert.Equal(t, 0, res.MessagesAdded)
}

func TestInvariant_PostingUniquenessPerTerm(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "A", userLine("alpha alpha alpha"))
	idx, err := Build(dir)
	require.NoError(t, err)

	// "alpha" appears three times in one message but tokenization
	// produces a set, so only one posting should exist.
	assert.Len(t, idx.Terms["alpha"], 1)
	_ = path
}

func TestFileLock_AcquireRelease(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, ".inverted-index.lock")

	lock := NewFileLock(lockPath, time.Second)
	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())

	// Lock file is removed after release.
	_, err := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLock_TimesOutWhenHeld(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, ".inverted-index.lock")

	first := NewFileLock(lockPath, time.Second)
	require.NoError(t, first.Acquire())
	defer first.Release()

	second := NewFileLock(lockPath, 50*time.Millisecond)
	err := second.Acquire()
	assert.Error(t, err)
}
