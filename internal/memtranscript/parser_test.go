package memtranscript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTranscript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseFile_BasicUserAndAssistant(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","sessionId":"sess-1","timestamp":"2026-07-29T10:00:00Z","message":{"role":"user","content":"Glicko-2 rating system for ChessRT leaderboard"}}
{"type":"assistant","sessionId":"sess-1","timestamp":"2026-07-29T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"Sure, let's design it."}]}}
`
	path := writeTranscript(t, dir, "sess-1.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, 0, msgs[0].Index)
	assert.Equal(t, "Glicko-2 rating system for ChessRT leaderboard", msgs[0].Text())

	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, 1, msgs[1].Index)
	assert.Equal(t, "Sure, let's design it.", msgs[1].Text())
}

func TestParseFile_SkipsNonMessageTypesAndBlankLines(t *testing.T) {
	dir := t.TempDir()
	content := "\n" + `{"type":"summary","message":{}}` + "\n" + `{"type":"user","message":{"role":"user","content":"hello"}}` + "\n\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Text())
	// The skipped blank and summary lines still occupy line positions 0
	// and 1; the kept message is line 2.
	assert.Equal(t, 2, msgs[0].Index)
}

func TestParseFile_SkipsMalformedLineButKeepsGoing(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"first"}}` + "\n" +
		`not json at all` + "\n" +
		`{"type":"user","message":{"role":"user","content":"second"}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, 0, msgs[0].Index)
	// The malformed line still advances the line index, matching the
	// original indexer's raw-line numbering.
	assert.Equal(t, 2, msgs[1].Index)
}

func TestParseFile_LegacyMessageType(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"message","message":{"role":"user","content":"legacy format"}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "legacy format", msgs[0].Text())
}

func TestParseFile_ToolUseAndToolResultBlocks(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"tool_use","name":"Read","input":{"file_path":"/tmp/x.go"}},` +
		`{"type":"tool_result","content":"file contents here"},` +
		`{"type":"thinking","text":"considering options"}` +
		`]}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Blocks, 3)

	tc, ok := msgs[0].Blocks[0].(ToolCallBlock)
	require.True(t, ok)
	assert.Equal(t, "Read", tc.Name)
	assert.Equal(t, "/tmp/x.go", tc.Input["file_path"])

	tr, ok := msgs[0].Blocks[1].(ToolResultBlock)
	require.True(t, ok)
	assert.Equal(t, "file contents here", tr.Text)

	th, ok := msgs[0].Blocks[2].(ThinkingBlock)
	require.True(t, ok)
	assert.Equal(t, "considering options", th.Text)
}

func TestParseFile_UnknownBlockTypeToleratedSilently(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"assistant","message":{"role":"assistant","content":[{"type":"image","text":""},{"type":"text","text":"hi"}]}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, msgs[0].Blocks, 2)
	_, isOther := msgs[0].Blocks[0].(OtherBlock)
	assert.True(t, isOther)
	assert.Equal(t, "hi", msgs[0].Text())
}

func TestParseFile_EmptyMessageSkipped(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":""}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseFile_UnreadableFileReturnsError(t *testing.T) {
	_, err := ParseFile("/nonexistent/path/to/transcript.jsonl")
	require.Error(t, err)
}

func TestParseFile_SessionIDFallsBackToFilename(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"hi"}}` + "\n"
	path := writeTranscript(t, dir, "abc-123.jsonl", content)

	msgs, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "abc-123", msgs[0].SessionID)
}

func TestParseFileFrom_SkipsAlreadyIndexedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"first"}}` + "\n" +
		`{"type":"user","message":{"role":"user","content":"second"}}` + "\n" +
		`{"type":"user","message":{"role":"user","content":"third"}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFileFrom(path, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, 1, msgs[0].Index)
	assert.Equal(t, "second", msgs[0].Text())
	assert.Equal(t, 2, msgs[1].Index)
}

func TestParseFileFrom_NoNewLinesIsNoop(t *testing.T) {
	dir := t.TempDir()
	content := `{"type":"user","message":{"role":"user","content":"only"}}` + "\n"
	path := writeTranscript(t, dir, "s.jsonl", content)

	msgs, err := ParseFileFrom(path, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestParseDir_GroupsMessagesBySession(t *testing.T) {
	dir := t.TempDir()
	writeTranscript(t, dir, "sess-a.jsonl", `{"type":"user","message":{"role":"user","content":"a1"}}`+"\n")
	writeTranscript(t, dir, "sess-b.jsonl", `{"type":"user","message":{"role":"user","content":"b1"}}`+"\n")

	grouped, err := ParseDir(dir)
	require.NoError(t, err)
	require.Contains(t, grouped, "sess-a")
	require.Contains(t, grouped, "sess-b")
	assert.Equal(t, "a1", grouped["sess-a"][0].Text())
}
