// Package memhooks adapts the single event this engine reacts to —
// session:transcript:update — into a registered handler, following the
// teacher's lifecycle-hook shape trimmed down to one event type.
package memhooks

import (
	"context"
	"fmt"
)

// EventType names a hook event. This engine defines exactly one.
type EventType string

// EventTranscriptUpdate fires whenever a transcript file grows. Payload:
// TranscriptUpdate.
const EventTranscriptUpdate EventType = "session:transcript:update"

// TranscriptUpdate is the payload for EventTranscriptUpdate.
type TranscriptUpdate struct {
	SessionID string
	FilePath  string
	Immediate bool
}

// Handler reacts to one event's payload.
type Handler func(ctx context.Context, update TranscriptUpdate) error

// Manager dispatches EventTranscriptUpdate to its registered handlers, in
// registration order, the same type-keyed-map shape as
// internal/hooks.HookManager generalized to this one event.
type Manager struct {
	handlers []Handler
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a handler invoked on every dispatched transcript update.
func (m *Manager) Register(h Handler) {
	m.handlers = append(m.handlers, h)
}

// Dispatch runs every registered handler in order, stopping and wrapping
// the error at the first failure — mirroring HookManager.Execute's
// fmt.Errorf("hook %s failed: %w", ...) wrapping.
func (m *Manager) Dispatch(ctx context.Context, update TranscriptUpdate) error {
	for _, h := range m.handlers {
		if err := h(ctx, update); err != nil {
			return fmt.Errorf("hook %s failed: %w", EventTranscriptUpdate, err)
		}
	}
	return nil
}
