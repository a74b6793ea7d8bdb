// Package memdoc is the in-memory reference implementation of the document
// store flavor. It backs tests and local development; deliveries to
// subscribers are synchronous and per-path ordered.
package memdoc

import (
	"context"
	"sync"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/remote"
)

type subscriber struct {
	id int
	fn remote.ChangeFunc
}

// Store keeps documents keyed by path. The zero value is not usable; call New.
type Store struct {
	mu   sync.Mutex
	docs map[string]remote.Record
	subs map[string][]subscriber
	next int

	// now is the store's clock, the authority for server timestamps.
	now func() time.Time
}

func New() *Store {
	return &Store{
		docs: make(map[string]remote.Record),
		subs: make(map[string][]subscriber),
		now:  time.Now,
	}
}

// SetClock overrides the server-timestamp clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Write(ctx context.Context, path string, rec remote.Record, merge bool) error {
	if err := remote.ValidateDocPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	resolved := rec.Resolve(s.now().UTC())
	cur, exists := s.docs[path]
	if merge && exists {
		cur = cur.Clone()
		for k, v := range resolved {
			cur[k] = v
		}
		s.docs[path] = cur
	} else {
		s.docs[path] = resolved.Clone()
	}
	snapshot := s.docs[path].Clone()
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(snapshot, nil)
	}
	return nil
}

func (s *Store) ReadOnce(ctx context.Context, path string) (remote.Record, error) {
	if err := remote.ValidateDocPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (s *Store) Subscribe(path string, onChange remote.ChangeFunc) (remote.CancelFunc, error) {
	if err := remote.ValidateDocPath(path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.next++
	id := s.next
	s.subs[path] = append(s.subs[path], subscriber{id: id, fn: onChange})
	var snapshot remote.Record
	if rec, ok := s.docs[path]; ok {
		snapshot = rec.Clone()
	}
	s.mu.Unlock()

	// Initial delivery with current state, nil if absent.
	onChange(snapshot, nil)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		kept := s.subs[path][:0]
		for _, t := range s.subs[path] {
			if t.id != id {
				kept = append(kept, t)
			}
		}
		s.subs[path] = kept
	}, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := remote.ValidateDocPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.docs, path)
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(nil, nil)
	}
	return nil
}

// EmitListenError simulates a transient listen failure on path, delivering
// the error to every live subscriber. Intended for tests.
func (s *Store) EmitListenError(path string, err error) {
	s.mu.Lock()
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(nil, err)
	}
}
