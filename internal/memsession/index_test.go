package memsession

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIndex_BasicSummary(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","timestamp":"2026-07-20T10:00:00Z","message":{"role":"user","content":"Glicko-2 rating system for ChessRT leaderboard"}}
{"type":"assistant","timestamp":"2026-07-20T10:01:00Z","message":{"role":"assistant","content":"Sounds good, let's design the rating update formula"}}
`
	path := writeTranscript(t, dir, "sess-1.jsonl", content)

	summary, err := Index(path, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, "sess-1", summary.SessionID)
	assert.Equal(t, 2, summary.MessageCount)
	assert.Equal(t, "2026-07-20", summary.Date)
	assert.Contains(t, summary.Topics, "chessrt")
}

func TestIndex_EmptyTranscriptYieldsZeroMessages(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, "empty.jsonl", "")

	summary, err := Index(path, "empty")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.MessageCount)
}

func TestIndex_FallsBackToFileMtimeWithoutTimestamps(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"hello there friend"}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	before := time.Now().Add(-time.Minute)
	summary, err := Index(path, "s")
	require.NoError(t, err)

	assert.False(t, summary.Timestamp.Before(before))
}

func TestIndexDir_GroupsBySessionFilename(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "a.jsonl", `{"type":"user","timestamp":"2026-07-20T10:00:00Z","message":{"role":"user","content":"alpha beta gamma"}}`+"\n")
	writeTranscript(t, dir, "b.jsonl", `{"type":"user","timestamp":"2026-07-21T10:00:00Z","message":{"role":"user","content":"delta epsilon zeta"}}`+"\n")

	summaries, err := IndexDir(dir)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries["a"].MessageCount)
	assert.Equal(t, 1, summaries["b"].MessageCount)
}

func TestSaveLoad_SessionSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	summaries := map[string]Summary{
		"a": {SessionID: "a", Date: "2026-07-20", MessageCount: 3, Topics: []string{"chessrt", "glicko-2"}},
	}
	f := ToFile("/proj", "/proj/sessions", summaries, time.Now().Round(0).UTC())

	path := filepath.Join(dir, "sessions-index.json")
	require.NoError(t, Save(f, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "session-summary", loaded.Kind)
	assert.Equal(t, f.Sessions, loaded.Sessions)

	back := loaded.Summaries()
	assert.Equal(t, 3, back["a"].MessageCount)
	assert.ElementsMatch(t, []string{"chessrt", "glicko-2"}, back["a"].Topics)
}

func TestLoad_MissingSessionSummaryFileReturnsEmpty(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, f.Sessions)
}
