package services

import "context"

type contextKey string

const (
	broadcastIDKey contextKey = "broadcast_id"
	sectionKey     contextKey = "section"
	runIDKey       contextKey = "run_id"
)

// WithBroadcastID annotates context with the station-assigned broadcast identifier.
func WithBroadcastID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, broadcastIDKey, id)
}

// BroadcastIDFromContext extracts the broadcast identifier if present.
func BroadcastIDFromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(broadcastIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithSection annotates context with the matched section name.
func WithSection(ctx context.Context, section string) context.Context {
	if section == "" {
		return ctx
	}
	return context.WithValue(ctx, sectionKey, section)
}

// SectionFromContext returns the section name if present.
func SectionFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sectionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
