package core

import (
	"context"
	"errors"
	"sync"
)

// LatestTracker lets only the newest lookup per key run to completion.
//
// A key is typically client + field (for example "10.0.0.7|addresses.1.postalCode").
// Begin cancels whatever request is still running under the same key, and the
// done func only removes the entry it created, so an older request finishing
// late never cancels a newer one.
type LatestTracker struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[string]inflightLookup
}

type inflightLookup struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// NewLatestTracker creates an empty tracker.
func NewLatestTracker() *LatestTracker {
	return &LatestTracker{inflight: make(map[string]inflightLookup)}
}

// Begin registers a new request under key and returns its context. The
// context is cancelled with cause ErrSuperseded when another request begins
// under the same key. Callers must call done when the request finishes.
func (t *LatestTracker) Begin(ctx context.Context, key string) (context.Context, func()) {
	child, cancel := context.WithCancelCause(ctx)

	t.mu.Lock()
	t.seq++
	id := t.seq
	if prev, ok := t.inflight[key]; ok {
		prev.cancel(ErrSuperseded)
	}
	t.inflight[key] = inflightLookup{id: id, cancel: cancel}
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if cur, ok := t.inflight[key]; ok && cur.id == id {
			delete(t.inflight, key)
		}
		t.mu.Unlock()
		cancel(context.Canceled)
	}
	return child, done
}

// InFlight returns the number of keys with a running request.
func (t *LatestTracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// Superseded reports whether ctx was cancelled by a newer request.
func Superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
