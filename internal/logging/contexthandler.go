// Package logging wires request-scoped attributes from context into slog.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

type contextKey struct{}

// ContextHandler is a slog.Handler that enriches records with the attributes
// stored in the context via [WithAttrs].
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler wraps the given handler.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// Enabled delegates to the underlying handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds the context attributes to the record before delegating.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(contextKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	if err := h.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("handle log record: %w", err)
	}
	return nil
}

// WithAttrs wraps the result of calling WithAttrs on the underlying handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup wraps the result of calling WithGroup on the underlying handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// WithAttrs returns a context whose log records carry the given attributes.
// The stored slice is cloned so sibling contexts do not alias each other.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if existing, ok := ctx.Value(contextKey{}).([]slog.Attr); ok {
		attrs = append(slices.Clip(slices.Clone(existing)), attrs...)
	}
	return context.WithValue(ctx, contextKey{}, attrs)
}
