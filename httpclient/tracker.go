package httpclient

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrCanceled is returned by a tracked call that was superseded by a newer
// call under the same tracker key or cancelled with Cancel.
var ErrCanceled = errors.New("httpclient: request canceled")

// NewTrackerKey returns a random tracker key.
func NewTrackerKey() string {
	return uuid.NewString()
}

// Tracker holds at most one in-flight call per tracker key.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]trackerEntry
	nextGen uint64
}

type trackerEntry struct {
	gen    uint64
	cancel context.CancelCauseFunc
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]trackerEntry)}
}

// Track derives a cancellable context for a call under key, cancelling the
// call previously registered under the same key. The returned release func
// must be called when the call finishes; it deregisters the call unless a
// newer one has already taken the key.
func (t *Tracker) Track(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	t.mu.Lock()
	if prev, ok := t.entries[key]; ok {
		prev.cancel(ErrCanceled)
	}
	t.nextGen++
	gen := t.nextGen
	t.entries[key] = trackerEntry{gen: gen, cancel: cancel}
	t.mu.Unlock()

	release := func() {
		t.mu.Lock()
		if cur, ok := t.entries[key]; ok && cur.gen == gen {
			delete(t.entries, key)
		}
		t.mu.Unlock()
		cancel(nil)
	}
	return ctx, release
}

// Cancel cancels the in-flight call under key. It reports whether one existed.
func (t *Tracker) Cancel(key string) bool {
	t.mu.Lock()
	entry, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	t.mu.Unlock()
	if ok {
		entry.cancel(ErrCanceled)
	}
	return ok
}

// CancelAll cancels every in-flight call.
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	entries := t.entries
	t.entries = make(map[string]trackerEntry)
	t.mu.Unlock()
	for _, e := range entries {
		e.cancel(ErrCanceled)
	}
}

// InFlight reports whether a call is registered under key.
func (t *Tracker) InFlight(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

// Len returns the number of in-flight tracked calls.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
