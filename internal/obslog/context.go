package obslog

import "context"

type sessionCtxKey struct{}
type queryCtxKey struct{}
type loggerCtxKey struct{}

// WithSessionID attaches a session ID for inclusion on every subsequent
// log call that receives this context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext extracts a session ID set by WithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionCtxKey{}).(string)
	return s
}

// WithQueryID attaches a query correlation ID.
func WithQueryID(ctx context.Context, queryID string) context.Context {
	return context.WithValue(ctx, queryCtxKey{}, queryID)
}

// QueryIDFromContext extracts a query ID set by WithQueryID.
func QueryIDFromContext(ctx context.Context) string {
	q, _ := ctx.Value(queryCtxKey{}).(string)
	return q
}

// WithLogger stores a Logger in ctx.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// FromContext retrieves the Logger stored by WithLogger, or a no-op logger
// if none is present.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return nop
}
