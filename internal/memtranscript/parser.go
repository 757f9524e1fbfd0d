package memtranscript

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memerrors"
)

// maxScanTokenSize matches the teacher's 10MB scanner buffer — transcripts
// can carry large tool outputs on a single JSONL line.
const maxScanTokenSize = 10 * 1024 * 1024

// jsonlRecord is the wire shape of one transcript line.
type jsonlRecord struct {
	UUID      string          `json:"uuid"`
	Type      string          `json:"type"`
	Message   json.RawMessage `json:"message,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content,omitempty"`
}

type rawBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
}

// ParseFile reads a JSONL transcript and returns its user/assistant
// messages in file order. Malformed lines are skipped and recovered from;
// only an unreadable file is a returned error.
func ParseFile(path string) ([]Message, error) {
	return ParseFileFrom(path, -1)
}

// ParseFileFrom reads a JSONL transcript and returns only the messages whose
// line ordinal is greater than afterLine (pass -1 to read the whole file).
// Lines at or before afterLine are skipped without being unmarshaled,
// matching the incremental updater's "read only new lines" contract.
func ParseFileFrom(path string, afterLine int) ([]Message, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, memerrors.New(memerrors.TranscriptUnreadable, "ParseFile", err)
	}
	defer file.Close()

	sessionID := strings.TrimSuffix(filepath.Base(path), ".jsonl")

	scanner := bufio.NewScanner(file)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	var messages []Message
	lineIdx := 0
	for scanner.Scan() {
		idx := lineIdx
		lineIdx++
		if idx <= afterLine {
			continue
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		var rec jsonlRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Type != "user" && rec.Type != "assistant" && rec.Type != "message" {
			continue
		}

		msg, ok := parseMessage(rec, sessionID, idx)
		if !ok {
			continue
		}
		messages = append(messages, msg)
	}

	if err := scanner.Err(); err != nil {
		return nil, memerrors.New(memerrors.TranscriptUnreadable, "ParseFile", err)
	}

	return messages, nil
}

func parseMessage(rec jsonlRecord, sessionID string, idx int) (Message, bool) {
	sid := rec.SessionID
	if sid == "" {
		sid = sessionID
	}

	ts := parseTimestamp(rec.Timestamp)

	var cm claudeMessage
	if json.Unmarshal(rec.Message, &cm) != nil {
		return Message{}, false
	}

	// The legacy "message" record type carries its role nested; the
	// Claude Code native format mirrors it at the top level.
	var role Role
	if rec.Type == "message" {
		role = Role(cm.Role)
	} else {
		role = Role(rec.Type)
	}
	if role != RoleUser && role != RoleAssistant {
		return Message{}, false
	}

	var blocks []ContentBlock

	// Content may be a bare string or a content-block array.
	if len(cm.Content) > 0 {
		var asString string
		if json.Unmarshal(cm.Content, &asString) == nil {
			if asString != "" {
				blocks = append(blocks, TextBlock{Text: asString})
			}
		} else {
			var raw []rawBlock
			if json.Unmarshal(cm.Content, &raw) == nil {
				blocks = parseBlocks(raw)
			}
		}
	}

	if len(blocks) == 0 {
		return Message{}, false
	}

	return Message{
		SessionID: sid,
		Index:     idx,
		Role:      role,
		Timestamp: ts,
		Blocks:    blocks,
	}, true
}

func parseBlocks(raw []rawBlock) []ContentBlock {
	blocks := make([]ContentBlock, 0, len(raw))
	for _, b := range raw {
		switch b.Type {
		case "text":
			if b.Text != "" {
				blocks = append(blocks, TextBlock{Text: b.Text})
			}
		case "thinking":
			if b.Text != "" {
				blocks = append(blocks, ThinkingBlock{Text: b.Text})
			}
		case "tool_use", "toolCall":
			input := map[string]string{}
			var m map[string]interface{}
			if json.Unmarshal(b.Input, &m) == nil {
				for k, v := range m {
					input[k] = toString(v)
				}
			}
			blocks = append(blocks, ToolCallBlock{Name: b.Name, Input: input})
		case "tool_result", "toolResult":
			text := extractToolResultText(b.Content)
			if text != "" {
				blocks = append(blocks, ToolResultBlock{Text: text})
			}
		default:
			blocks = append(blocks, OtherBlock{Type: b.Type})
		}
	}
	return blocks
}

// extractToolResultText handles both string and structured tool_result
// content, the same duality update-inverted-index.py's
// extract_text_from_message checks for.
func extractToolResultText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Text string `json:"text"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Text
	}
	return ""
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// parseTimestamp accepts an ISO-8601 string or a Unix numeric timestamp
// (milliseconds if > 1e12, else seconds), matching update-inverted-index.py's
// timestamp normalization. It returns the zero time if raw is absent or
// unparseable, leaving the caller to fall back to file mtime.
func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		if s == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02T15:04:05Z", s); err == nil {
			return t
		}
		return time.Time{}
	}

	var n float64
	if json.Unmarshal(raw, &n) == nil {
		if n > 1e12 {
			return time.UnixMilli(int64(n))
		}
		return time.Unix(int64(n), 0)
	}

	return time.Time{}
}

// ParseDir parses every *.jsonl transcript directly under dir (and one
// level of subdirectories, matching the varying Claude Code session
// layouts) and groups the resulting messages by session ID.
func ParseDir(dir string) (map[string][]Message, error) {
	result := make(map[string][]Message)

	patterns := []string{
		filepath.Join(dir, "*.jsonl"),
		filepath.Join(dir, "*", "*.jsonl"),
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, memerrors.New(memerrors.TranscriptUnreadable, "ParseDir", err)
		}
		files = append(files, matches...)
	}

	for _, f := range files {
		messages, err := ParseFile(f)
		if err != nil {
			continue
		}
		if len(messages) == 0 {
			continue
		}
		sid := messages[0].SessionID
		result[sid] = append(result[sid], messages...)
	}

	return result, nil
}
