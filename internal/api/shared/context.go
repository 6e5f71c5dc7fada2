package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
)

// ContextKey is the type for context values set by the API layer.
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the authenticated user's ID.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a fresh trace ID to the context, used to correlate logs
// and error responses for one request.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context, or "" if absent.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// UserID retrieves the authenticated user's ID from the context. The
// second return is false when no authenticated identity is attached.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDContextKey).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// WithUserID returns a context carrying the authenticated user's ID.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, UserIDContextKey, id)
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate random trace ID", "error", err)
		return ""
	}
	return hex.EncodeToString(b)
}
