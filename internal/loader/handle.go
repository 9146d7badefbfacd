// Package loader defers fetching content modules until their route is first
// visited, caches resolved modules for the process lifetime, and exposes a
// per-module status handle the rendering layer branches on.
package loader

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Status is the lifecycle state of a module handle. A handle only moves
// forward: Unresolved -> Pending -> (Ready | Failed). There is no path back
// to Pending; re-attempting a failed load requires an explicit Invalidate,
// which replaces the handle entirely.
type Status int32

const (
	StatusUnresolved Status = iota
	StatusPending
	StatusReady
	StatusFailed
)

// String returns the status name used in logs and API payloads.
func (s Status) String() string {
	switch s {
	case StatusUnresolved:
		return "unresolved"
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Module is a resolved content module: the rendered fragment for one topic.
type Module struct {
	Slug     string
	HTML     []byte
	ModTime  time.Time
	LoadedAt time.Time
}

// Handle tracks one content module's load lifecycle. A single handle is
// shared by every route match for its slug, so revisiting a route observes
// the cached result instead of a new fetch.
type Handle struct {
	slug string
	// fetchKey scopes the fetch to this handle's generation, so a fetch
	// started before an Invalidate never satisfies the replacement handle.
	fetchKey string
	status   *atomic.Int32

	mutex  sync.RWMutex
	module *Module
	err    error

	done chan struct{}
}

func newHandle(slug string) *Handle {
	return &Handle{
		slug:   slug,
		status: atomic.NewInt32(int32(StatusUnresolved)),
		done:   make(chan struct{}),
	}
}

// Slug returns the content slug this handle tracks.
func (h *Handle) Slug() string {
	return h.slug
}

// Status returns the current lifecycle state.
func (h *Handle) Status() Status {
	return Status(h.status.Load())
}

// Module returns the resolved module, or nil unless Status is StatusReady.
func (h *Handle) Module() *Module {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.module
}

// Err returns the load failure, or nil unless Status is StatusFailed.
func (h *Handle) Err() error {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.err
}

// Done returns a channel closed once the handle settles (ready or failed).
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Await blocks until the handle settles or the context is canceled. On a
// settled handle it returns immediately, so cached routes never re-enter a
// pending phase.
func (h *Handle) Await(ctx context.Context) (*Module, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.module, h.err
}

// markPending moves Unresolved -> Pending. Returns false if the handle has
// already left Unresolved.
func (h *Handle) markPending() bool {
	return h.status.CompareAndSwap(int32(StatusUnresolved), int32(StatusPending))
}

// settle moves Pending -> Ready/Failed exactly once and wakes waiters.
func (h *Handle) settle(module *Module, err error) {
	next := StatusReady
	if err != nil {
		next = StatusFailed
	}
	if !h.status.CompareAndSwap(int32(StatusPending), int32(next)) {
		return
	}
	if err != nil {
		module = nil
	}
	h.mutex.Lock()
	h.module = module
	h.err = err
	h.mutex.Unlock()
	close(h.done)
}
