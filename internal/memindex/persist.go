package memindex

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fyrsmithlabs/memsearch/internal/memerrors"
)

// Load reads the index from path. A missing file is not an error: it
// returns a fresh empty index, matching load_inverted_index's behavior when
// inverted-index.json doesn't exist yet.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, memerrors.New(memerrors.IndexMissing, "Load", err)
	}

	idx := New()
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, memerrors.New(memerrors.IndexCorrupt, "Load", err)
	}
	if idx.Terms == nil {
		idx.Terms = make(map[string][]Posting)
	}
	if idx.Sessions == nil {
		idx.Sessions = make(map[string]SessionMeta)
	}
	return idx, nil
}

// Save writes idx to path atomically: write to a temp file in the same
// directory, then rename over the destination, so readers never observe a
// partial write.
func Save(idx *Index, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}

	tmp, err := os.CreateTemp(dir, ".inverted-index-*.tmp")
	if err != nil {
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return memerrors.New(memerrors.IndexCorrupt, "Save", err)
	}
	return nil
}

// LockPath returns the advisory lock path that sits alongside the index
// file, ".inverted-index.lock" in the same directory.
func LockPath(indexPath string) string {
	return filepath.Join(filepath.Dir(indexPath), ".inverted-index.lock")
}
