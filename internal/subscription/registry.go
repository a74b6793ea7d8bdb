// Package subscription tracks live remote subscriptions keyed by
// (path, field) and guarantees at most one per key: registering a
// replacement cancels the previous handle first.
package subscription

import (
	"sync"

	"github.com/khianvictorycalderon/profilesync/internal/remote"
)

// Key identifies one subscription.
type Key struct {
	Path  string
	Field string
}

// Factory installs a new subscription and returns its cancellation handle.
type Factory func() (remote.CancelFunc, error)

// Registry owns the key → handle mapping.
type Registry struct {
	mu      sync.Mutex
	handles map[Key]remote.CancelFunc
}

func NewRegistry() *Registry {
	return &Registry{handles: make(map[Key]remote.CancelFunc)}
}

// Register cancels any existing handle for key, then installs the one built
// by factory. If factory fails, the key is left empty and the error returned.
func (r *Registry) Register(key Key, factory Factory) (remote.CancelFunc, error) {
	r.mu.Lock()
	old := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if old != nil {
		old()
	}

	handle, err := factory()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.handles[key] = handle
	r.mu.Unlock()
	return handle, nil
}

// Cancel releases the subscription for key, if any.
func (r *Registry) Cancel(key Key) {
	r.mu.Lock()
	handle := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()

	if handle != nil {
		handle()
	}
}

// CancelAll releases every tracked handle. Idempotent and safe with zero
// active subscriptions.
func (r *Registry) CancelAll() {
	r.mu.Lock()
	handles := make([]remote.CancelFunc, 0, len(r.handles))
	for _, h := range r.handles {
		handles = append(handles, h)
	}
	r.handles = make(map[Key]remote.CancelFunc)
	r.mu.Unlock()

	for _, h := range handles {
		h()
	}
}

// Len reports the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
