// Package memtree is the in-memory hierarchical (realtime tree) store flavor.
// Same contract as memdoc but without the document/collection segment
// convention: any non-empty path addresses a leaf record.
package memtree

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

type Store struct {
	mu    sync.Mutex
	leafs map[string]remote.Record
	subs  map[string][]subscriber
	next  int
	now   func() time.Time
}

func New() *Store {
	return &Store{
		leafs: make(map[string]remote.Record),
		subs:  make(map[string][]subscriber),
		now:   time.Now,
	}
}

func (s *Store) Write(ctx context.Context, path string, rec remote.Record, merge bool) error {
	if _, err := remote.SplitPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	resolved := rec.Resolve(s.now().UTC())
	cur, exists := s.leafs[path]
	if merge && exists {
		cur = cur.Clone()
		for k, v := range resolved {
			cur[k] = v
		}
		s.leafs[path] = cur
	} else {
		s.leafs[path] = resolved.Clone()
	}
	snapshot := s.leafs[path].Clone()
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(snapshot, nil)
	}
	return nil
}

func (s *Store) ReadOnce(ctx context.Context, path string) (remote.Record, error) {
	if _, err := remote.SplitPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.leafs[path]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (s *Store) Subscribe(path string, onChange remote.ChangeFunc) (remote.CancelFunc, error) {
	if _, err := remote.SplitPath(path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.next++
	id := s.next
	s.subs[path] = append(s.subs[path], subscriber{id: id, fn: onChange})
	var snapshot remote.Record
	if rec, ok := s.leafs[path]; ok {
		snapshot = rec.Clone()
	}
	s.mu.Unlock()

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
	if _, err := remote.SplitPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.leafs, path)
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(nil, nil)
	}
	return nil
}
