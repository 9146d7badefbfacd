package loader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/conneroisu/docshell/internal/logging"
)

// FetchFunc loads the content module for a slug. Implementations may fail
// (missing file, unreadable content) but must not panic.
type FetchFunc func(ctx context.Context, slug string) (*Module, error)

// Registry owns one handle per content slug. The handle map is append-only:
// entries are added on first request and only replaced through Invalidate,
// the explicit remount path.
type Registry struct {
	fetch  FetchFunc
	logger logging.Logger

	mutex      sync.RWMutex
	handles    map[string]*Handle
	generation uint64

	// onFailure, when set, is invoked once per handle that settles failed.
	onFailure func(slug string, err error)

	// group collapses duplicate fetch attempts into a single underlying
	// operation. Keys carry the handle generation so an in-flight fetch
	// for an invalidated handle never feeds its replacement.
	group singleflight.Group
}

// NewRegistry creates a registry backed by the given fetcher.
func NewRegistry(fetch FetchFunc, logger logging.Logger) *Registry {
	return &Registry{
		fetch:   fetch,
		logger:  logger.WithComponent("loader"),
		handles: make(map[string]*Handle),
	}
}

// OnFailure registers a callback fired once per handle that settles failed,
// before waiters are released. Set it before the registry starts serving.
func (r *Registry) OnFailure(fn func(slug string, err error)) {
	r.onFailure = fn
}

// Request returns the handle for slug, starting its fetch on first request.
// It is idempotent: every caller for the same slug observes the same handle,
// and a settled handle is returned as-is with no new fetch.
func (r *Registry) Request(ctx context.Context, slug string) *Handle {
	r.mutex.Lock()
	handle, ok := r.handles[slug]
	if !ok {
		r.generation++
		handle = newHandle(slug)
		handle.fetchKey = fmt.Sprintf("%s#%d", slug, r.generation)
		r.handles[slug] = handle
	}
	r.mutex.Unlock()

	if handle.markPending() {
		go r.resolve(handle)
	}
	return handle
}

// Peek returns the handle for slug without starting a fetch.
func (r *Registry) Peek(slug string) (*Handle, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	handle, ok := r.handles[slug]
	return handle, ok
}

// Invalidate drops the handle for slug so the next request creates a fresh
// one. This is the only remount path: settled handles never transition back
// to pending in place. Returns true if a handle was dropped.
func (r *Registry) Invalidate(slug string) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if _, ok := r.handles[slug]; !ok {
		return false
	}
	delete(r.handles, slug)
	return true
}

// Statuses returns a snapshot of every known handle's status by slug.
func (r *Registry) Statuses() map[string]Status {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make(map[string]Status, len(r.handles))
	for slug, handle := range r.handles {
		out[slug] = handle.Status()
	}
	return out
}

// resolve performs the fetch for a freshly pending handle. The fetch is not
// tied to any request context: an abandoned navigation's fetch runs to
// completion and its result stays cached for the next visit.
func (r *Registry) resolve(handle *Handle) {
	ctx := context.Background()

	result, err, shared := r.group.Do(handle.fetchKey, func() (interface{}, error) {
		return r.fetch(ctx, handle.slug)
	})

	if err != nil {
		r.logger.Error(ctx, err, "content module load failed", "slug", handle.slug)
		r.notifyFailure(handle.slug, err)
		handle.settle(nil, err)
		return
	}

	module, ok := result.(*Module)
	if !ok || module == nil {
		r.logger.Error(ctx, nil, "fetcher returned no module", "slug", handle.slug)
		err := errNilModule(handle.slug)
		r.notifyFailure(handle.slug, err)
		handle.settle(nil, err)
		return
	}

	r.logger.Debug(ctx, "content module resolved",
		"slug", handle.slug, "bytes", len(module.HTML), "shared", shared)
	handle.settle(module, nil)
}

func (r *Registry) notifyFailure(slug string, err error) {
	if r.onFailure != nil {
		r.onFailure(slug, err)
	}
}
