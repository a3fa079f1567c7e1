package tenantgate

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// binding is the per-request slot holding the bound tenant. The slot is a
// single atomic pointer: Clear is one store observed by every holder of the
// request context, and reads take no lock.
type binding struct {
	state atomic.Pointer[bound]
}

type bound struct {
	id     ID
	handle Handle
}

// Bind installs a tenant binding into the context and returns the derived
// context carrying it. Returns ErrAlreadyBound when the context already
// carries a live binding; the caller must treat that as a protocol
// violation, not rebind.
func Bind(ctx context.Context, id ID, handle Handle) (context.Context, error) {
	if b, ok := ctx.Value(contextKey{}).(*binding); ok && b.state.Load() != nil {
		return ctx, ErrAlreadyBound
	}
	b := &binding{}
	b.state.Store(&bound{id: id, handle: handle})
	return context.WithValue(ctx, contextKey{}, b), nil
}

// Current returns the bound tenant ID and handle.
// Returns false if the context carries no live binding.
func Current(ctx context.Context) (ID, Handle, bool) {
	b, ok := ctx.Value(contextKey{}).(*binding)
	if !ok {
		return 0, nil, false
	}
	s := b.state.Load()
	if s == nil {
		return 0, nil, false
	}
	return s.id, s.handle, true
}

// CurrentID returns just the bound tenant ID.
// Returns zero and false if the context carries no live binding.
func CurrentID(ctx context.Context) (ID, bool) {
	id, _, ok := Current(ctx)
	return id, ok
}

// MustCurrent returns the bound tenant ID and handle, panicking with
// ErrNotBound when the context carries no live binding. Use only in
// handlers that run strictly behind the gate.
func MustCurrent(ctx context.Context) (ID, Handle) {
	id, h, ok := Current(ctx)
	if !ok {
		panic(ErrNotBound)
	}
	return id, h
}

// Clear removes the binding from the context. Idempotent: clearing an
// unbound or never-bound context is a no-op. The removal is visible to
// every goroutine that captured the context.
func Clear(ctx context.Context) {
	if b, ok := ctx.Value(contextKey{}).(*binding); ok {
		b.state.Store(nil)
	}
}

// LoggerExtractor returns a context extractor for the logger that adds the
// bound tenant ID to every log record emitted with the request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := CurrentID(ctx); ok {
			return slog.Int64("tenant_id", int64(id)), true
		}
		return slog.Attr{}, false
	}
}
