// Package traceid carries a per-request correlation id on the context.
// Each request gets its own id; nothing is shared across requests.
package traceid

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// New generates a fresh correlation id.
func New() string {
	return uuid.NewString()
}

// Into returns a child context carrying the given trace id.
func Into(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From extracts the trace id from ctx, or "" if none was set.
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
