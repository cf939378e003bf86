package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID  contextKey = "run_id"
	ContextKeySource contextKey = "source_path"
)

// WithRunID adds a processing run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithSourcePath records the document being processed
func WithSourcePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeySource, path)
}

// SourcePathFromContext extracts the document path from context
func SourcePathFromContext(ctx context.Context) string {
	if p, ok := ctx.Value(ContextKeySource).(string); ok {
		return p
	}
	return ""
}

// WithTimeout creates a context with the specified timeout; zero means no timeout.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
