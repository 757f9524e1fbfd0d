package memsession

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memerrors"
)

// entry is one session's on-disk record, field names matching §6's
// session-summary file schema exactly (messageCount, not message_count).
type entry struct {
	Timestamp    time.Time `json:"timestamp"`
	Date         string    `json:"date"`
	MessageCount int       `json:"messageCount"`
	Topics       []string  `json:"topics"`
}

// File is the on-disk session-summary document.
type File struct {
	Kind        string           `json:"kind"`
	ProjectDir  string           `json:"projectDir"`
	SessionsDir string           `json:"sessionsDir"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Sessions    map[string]entry `json:"sessions"`
}

// ToFile assembles the on-disk document from a freshly computed summary
// map.
func ToFile(projectDir, sessionsDir string, summaries map[string]Summary, now time.Time) File {
	sessions := make(map[string]entry, len(summaries))
	for id, s := range summaries {
		sessions[id] = entry{
			Timestamp:    s.Timestamp,
			Date:         s.Date,
			MessageCount: s.MessageCount,
			Topics:       s.Topics,
		}
	}
	return File{
		Kind:        "session-summary",
		ProjectDir:  projectDir,
		SessionsDir: sessionsDir,
		LastUpdated: now,
		Sessions:    sessions,
	}
}

// Summaries extracts the Summary view back out of a loaded File.
func (f File) Summaries() map[string]Summary {
	out := make(map[string]Summary, len(f.Sessions))
	for id, e := range f.Sessions {
		out[id] = Summary{
			SessionID:    id,
			Date:         e.Date,
			Timestamp:    e.Timestamp,
			MessageCount: e.MessageCount,
			Topics:       e.Topics,
		}
	}
	return out
}

// Load reads the session-summary file at path. A missing file is not an
// error: it returns an empty File ready to be populated.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{Kind: "session-summary", Sessions: make(map[string]entry)}, nil
		}
		return File{}, memerrors.New(memerrors.IndexMissing, "memsession.Load", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, memerrors.New(memerrors.IndexCorrupt, "memsession.Load", err)
	}
	if f.Sessions == nil {
		f.Sessions = make(map[string]entry)
	}
	return f, nil
}

// Save writes f to path atomically via write-to-temp-and-rename, the same
// discipline memindex.Save uses for the inverted index.
func Save(f File, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-summary-*.tmp")
	if err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "memsession.Save", err)
	}
	return nil
}
