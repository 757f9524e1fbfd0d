// Package memsession builds the per-session summary used to cheaply
// prefilter candidates before the query engine opens any transcript: a
// date, a message count, and a handful of topic tokens scored to favor
// proper nouns and technical terms over filler words.
package memsession

import "time"

// Summary is the lightweight, serializable digest of one session.
type Summary struct {
	SessionID    string    `json:"session_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
	Topics       []string  `json:"topics"`
}
