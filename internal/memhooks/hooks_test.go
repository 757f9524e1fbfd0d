package memhooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_RunsHandlersInRegistrationOrder(t *testing.T) {
	m := NewManager()
	var order []string
	m.Register(func(ctx context.Context, u TranscriptUpdate) error {
		order = append(order, "first")
		return nil
	})
	m.Register(func(ctx context.Context, u TranscriptUpdate) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, m.Dispatch(context.Background(), TranscriptUpdate{SessionID: "s1"}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatch_StopsAndWrapsOnFirstError(t *testing.T) {
	m := NewManager()
	var ran []string
	m.Register(func(ctx context.Context, u TranscriptUpdate) error {
		ran = append(ran, "first")
		return errors.New("boom")
	})
	m.Register(func(ctx context.Context, u TranscriptUpdate) error {
		ran = append(ran, "second")
		return nil
	})

	err := m.Dispatch(context.Background(), TranscriptUpdate{SessionID: "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session:transcript:update")
	assert.Equal(t, []string{"first"}, ran)
}

func TestDispatch_NoHandlersIsNotAnError(t *testing.T) {
	m := NewManager()
	assert.NoError(t, m.Dispatch(context.Background(), TranscriptUpdate{SessionID: "s1"}))
}
