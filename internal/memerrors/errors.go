// Package memerrors defines the structured error taxonomy shared by every
// memsearch component.
package memerrors

import (
	"errors"
	"fmt"
)

// Kind discriminates the category of a MemoryError.
type Kind string

const (
	// IndexMissing means no inverted-index file exists on disk yet.
	IndexMissing Kind = "index_missing"
	// IndexCorrupt means the inverted-index file exists but failed to parse
	// or violates an invariant on load.
	IndexCorrupt Kind = "index_corrupt"
	// LockTimeout means an advisory file lock could not be acquired within
	// the configured timeout.
	LockTimeout Kind = "lock_timeout"
	// TranscriptUnreadable means a transcript file could not be opened or
	// read at the file level.
	TranscriptUnreadable Kind = "transcript_unreadable"
	// TranscriptMalformed means an individual transcript line failed to
	// parse; recovered by skipping the line.
	TranscriptMalformed Kind = "transcript_malformed"
	// ConfigInvalid means the loaded configuration failed validation.
	ConfigInvalid Kind = "config_invalid"
)

// MemoryError is the structured error object surfaced across component
// boundaries. Op names the operation that failed (e.g. "memindex.Load").
type MemoryError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *MemoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *MemoryError) Unwrap() error { return e.Err }

// New constructs a MemoryError.
func New(kind Kind, op string, err error) *MemoryError {
	return &MemoryError{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is a MemoryError of the given kind.
func Is(err error, kind Kind) bool {
	var me *MemoryError
	if errors.As(err, &me) {
		return me.Kind == kind
	}
	return false
}
