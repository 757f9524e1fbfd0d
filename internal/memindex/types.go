// Package memindex implements the inverted index over transcript tokens:
// full build, incremental update guarded by an advisory file lock, and
// atomic load/save.
package memindex

import "time"

// Posting is one occurrence of a token in a message.
type Posting struct {
	Session   string    `json:"session"`
	MsgIdx    int       `json:"msg_idx"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionMeta tracks incremental-update state for one session.
type SessionMeta struct {
	LastMsgIdx   int       `json:"last_msg_idx"`
	IndexedAt    time.Time `json:"indexed_at"`
	TermCount    int       `json:"term_count"`
	MessageCount int       `json:"message_count"`
}

// Index is the in-memory and on-disk representation of the inverted index.
// Field order and JSON tags match the bit-exact layout external tools
// interoperate with.
type Index struct {
	Version       int                    `json:"version"`
	LastUpdated   time.Time              `json:"last_updated"`
	TotalTerms    int                    `json:"total_terms"`
	TotalMessages int                    `json:"total_messages"`
	Terms         map[string][]Posting   `json:"terms"`
	Sessions      map[string]SessionMeta `json:"sessions"`
}

// New returns an empty index ready for Build or Update.
func New() *Index {
	return &Index{
		Version:  1,
		Terms:    make(map[string][]Posting),
		Sessions: make(map[string]SessionMeta),
	}
}
