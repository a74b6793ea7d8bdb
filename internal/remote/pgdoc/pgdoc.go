// Package pgdoc implements the document store flavor over Postgres.
// Documents live in a JSONB column keyed by path; merge writes use the jsonb
// concatenation operator, and subscriptions ride on LISTEN/NOTIFY so every
// committed write fans out to live subscribers.
package pgdoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
	"github.com/khianvictorycalderon/profilesync/internal/remote"
	"github.com/khianvictorycalderon/profilesync/internal/remote/pgdoc/migrations"
)

// changeChannel is the NOTIFY channel carrying changed document paths.
const changeChannel = "profilesync_doc_change"

type subscriber struct {
	id int
	fn remote.ChangeFunc
}

// Store is a DocumentStore backed by Postgres. One dedicated connection
// LISTENs for change notifications; all other traffic goes through the
// database/sql pool.
type Store struct {
	db  *sql.DB
	dsn string
	log logging.Logger
	now func() time.Time

	mu   sync.Mutex
	subs map[string][]subscriber
	next int

	stop context.CancelFunc
	done chan struct{}
}

// Open connects to dsn, runs the embedded migrations, and starts the
// notification listener.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	listenCtx, stop := context.WithCancel(context.Background())
	s := &Store{
		db:   db,
		dsn:  dsn,
		log:  log.With("module", "pgdoc"),
		now:  time.Now,
		subs: make(map[string][]subscriber),
		stop: stop,
		done: make(chan struct{}),
	}
	go s.listen(listenCtx)
	return s, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close stops the listener and releases the pool.
func (s *Store) Close() error {
	s.stop()
	<-s.done
	return s.db.Close()
}

func (s *Store) Write(ctx context.Context, path string, rec remote.Record, merge bool) error {
	if err := remote.ValidateDocPath(path); err != nil {
		return err
	}

	data, err := json.Marshal(rec.Resolve(s.now().UTC()))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	q := `
		INSERT INTO documents (path, data) VALUES ($1, $2::jsonb)
		ON CONFLICT (path) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if merge {
		q = `
		INSERT INTO documents (path, data) VALUES ($1, $2::jsonb)
		ON CONFLICT (path) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`
	}

	if _, err := s.db.ExecContext(ctx, q, path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return s.notify(ctx, path)
}

func (s *Store) ReadOnce(ctx context.Context, path string) (remote.Record, error) {
	if err := remote.ValidateDocPath(path); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE path = $1`, path).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rec remote.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return rec, nil
}

func (s *Store) Subscribe(path string, onChange remote.ChangeFunc) (remote.CancelFunc, error) {
	if err := remote.ValidateDocPath(path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.next++
	id := s.next
	s.subs[path] = append(s.subs[path], subscriber{id: id, fn: onChange})
	s.mu.Unlock()

	// Initial delivery with current state.
	ctx, cancel := context.WithTimeout(context.Background(), remote.DefaultOpTimeout)
	rec, err := s.ReadOnce(ctx, path)
	cancel()
	onChange(rec, err)

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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return s.notify(ctx, path)
}

func (s *Store) notify(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, changeChannel, path); err != nil {
		return fmt.Errorf("notify %s: %w", path, err)
	}
	return nil
}

// listen owns the dedicated LISTEN connection. A lost connection is retried
// with a flat backoff; subscribers see a transient listen error each time the
// stream breaks so downstream layers can degrade to null values.
func (s *Store) listen(ctx context.Context) {
	defer close(s.done)

	for {
		if ctx.Err() != nil {
			return
		}
		if err := s.listenOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error(ctx, "listener connection lost", "error", err)
			s.broadcastError(err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Store) listenOnce(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return err
	}

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		s.dispatch(ctx, n.Payload)
	}
}

// dispatch re-reads the changed document and fans it out, preserving
// per-path order because a single goroutine drains notifications.
func (s *Store) dispatch(ctx context.Context, path string) {
	s.mu.Lock()
	targets := append([]subscriber(nil), s.subs[path]...)
	s.mu.Unlock()
	if len(targets) == 0 {
		return
	}

	readCtx, cancel := context.WithTimeout(ctx, remote.DefaultOpTimeout)
	rec, err := s.ReadOnce(readCtx, path)
	cancel()
	if err != nil {
		s.log.Error(ctx, "snapshot read after notify failed", "path", path, "error", err)
	}

	for _, t := range targets {
		t.fn(rec, err)
	}
}

func (s *Store) broadcastError(err error) {
	s.mu.Lock()
	var targets []subscriber
	for _, list := range s.subs {
		targets = append(targets, list...)
	}
	s.mu.Unlock()

	for _, t := range targets {
		t.fn(nil, err)
	}
}
