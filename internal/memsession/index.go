package memsession

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memtranscript"
)

// sampleHead and sampleTail bound how much of a very large session's text
// gets fed into topic scoring, matching index-sessions.py's
// extract_text_from_session sampling (first 200, last 300 records) for
// sessions beyond roughly 500 messages.
const (
	sampleThreshold = 500
	sampleHead      = 200
	sampleTail      = 300
)

// Index builds a Summary for the single transcript at path. sessionID is
// used when the parsed messages are empty (no content to infer it from).
func Index(path, sessionID string) (Summary, error) {
	messages, err := memtranscript.ParseFile(path)
	if err != nil {
		return Summary{}, err
	}
	if len(messages) == 0 {
		return Summary{}, nil
	}
	if sessionID == "" {
		sessionID = messages[0].SessionID
	}

	sampled := messages
	if len(messages) > sampleThreshold*2 {
		head := messages[:sampleHead]
		tail := messages[len(messages)-sampleTail:]
		sampled = append(append([]memtranscript.Message{}, head...), tail...)
	}

	texts := make([]string, 0, len(sampled))
	var last time.Time
	for _, m := range sampled {
		if t := m.Text(); t != "" {
			texts = append(texts, t)
		}
	}
	for _, m := range messages {
		if !m.Timestamp.IsZero() && m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}

	if last.IsZero() {
		if info, statErr := os.Stat(path); statErr == nil {
			last = info.ModTime().UTC()
		}
	}

	return Summary{
		SessionID:    sessionID,
		Date:         last.Format("2006-01-02"),
		Time:         last.Format("15:04"),
		Timestamp:    last,
		MessageCount: len(messages),
		Topics:       ScoreTopics(texts),
	}, nil
}

// IndexDir builds a Summary for every *.jsonl transcript directly under dir,
// keyed by session ID (the filename stem), mirroring index_sessions's
// directory walk.
func IndexDir(dir string) (map[string]Summary, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return nil, err
	}

	out := make(map[string]Summary, len(entries))
	for _, path := range entries {
		sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")
		summary, err := Index(path, sessionID)
		if err != nil {
			return nil, err
		}
		if summary.MessageCount == 0 {
			continue
		}
		out[sessionID] = summary
	}
	return out, nil
}
