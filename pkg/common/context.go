package common

import (
	"context"
	"time"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	viewIDKey
	startTimeKey
)

// EnrichContext records the inbound request id and the time the request started
func EnrichContext(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return context.WithValue(ctx, startTimeKey, time.Now())
}

// GetRequestID returns the request id set by EnrichContext
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}

// WithViewID tags ctx with the chart view that issued a fetch
func WithViewID(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, viewIDKey, viewID)
}

// GetViewID returns the chart view id set by WithViewID
func GetViewID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(viewIDKey).(string)
	return id, ok
}

// ContextMetadata is the correlation data carried by a request context
type ContextMetadata struct {
	RequestID string        `json:"request_id,omitempty"`
	ViewID    string        `json:"view_id,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// ExtractMetadata collects whatever correlation data ctx carries.
// Duration is zero when the context was never enriched.
func ExtractMetadata(ctx context.Context) ContextMetadata {
	var meta ContextMetadata
	meta.RequestID, _ = GetRequestID(ctx)
	meta.ViewID, _ = GetViewID(ctx)
	if start, ok := ctx.Value(startTimeKey).(time.Time); ok {
		meta.Duration = time.Since(start)
	}
	return meta
}
