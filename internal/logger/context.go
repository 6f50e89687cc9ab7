package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds run-scoped logging fields. The CLI creates one per
// invocation; compactors narrow it with WithPolicy.
type LogContext struct {
	RunID     string    // Invocation id (uuid)
	TraceID   string    // OpenTelemetry trace ID
	SpanID    string    // OpenTelemetry span ID
	Input     string    // Input source: file path or "stdin"
	Policy    string    // Compaction policy currently running
	StartTime time.Time // For duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a LogContext for one run over the given input
func NewLogContext(runID, input string) *LogContext {
	return &LogContext{
		RunID:     runID,
		Input:     input,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithPolicy returns a copy with the policy set
func (lc *LogContext) WithPolicy(policy string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Policy = policy
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}

// fields returns the non-empty context fields as slog key/value pairs
func (lc *LogContext) fields() []any {
	if lc == nil {
		return nil
	}
	args := make([]any, 0, 10)
	if lc.RunID != "" {
		args = append(args, KeyRunID, lc.RunID)
	}
	if lc.TraceID != "" {
		args = append(args, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		args = append(args, KeySpanID, lc.SpanID)
	}
	if lc.Input != "" {
		args = append(args, KeyInput, lc.Input)
	}
	if lc.Policy != "" {
		args = append(args, KeyPolicy, lc.Policy)
	}
	return args
}
