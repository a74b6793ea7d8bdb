package remote

import (
	"context"
	"errors"
	"time"

	"github.com/khianvictorycalderon/profilesync/internal/logging"
)

// DefaultOpTimeout bounds Write, ReadOnce and Delete when the caller does not
// configure one. Subscriptions are long-lived and never bounded.
const DefaultOpTimeout = 10 * time.Second

// UpdateFunc receives field values from a subscription. The value is Null
// when the path or field is absent, and on transient listen errors.
type UpdateFunc func(v Value)

// Accessor implements the uniform remote contract over any Store flavor:
// merge-writes, read-once with null-on-absence, per-field subscriptions, and
// deletes, each with a bounded timeout surfaced as a distinct error kind.
type Accessor struct {
	store   Store
	timeout time.Duration
	log     logging.Logger
}

// NewAccessor wraps store. A zero timeout selects DefaultOpTimeout.
func NewAccessor(store Store, timeout time.Duration, log logging.Logger) *Accessor {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return &Accessor{store: store, timeout: timeout, log: log.With("module", "remote")}
}

// Write persists rec at path. merge=true touches only the given fields.
func (a *Accessor) Write(ctx context.Context, path string, rec Record, merge bool) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.store.Write(ctx, path, rec, merge); err != nil {
		return a.mapError(KindWriteFailed, path, err)
	}
	return nil
}

// ReadOnce returns the current value of one field at path. Absence of the
// path or the field yields Null, never an error.
func (a *Accessor) ReadOnce(ctx context.Context, path, field string) (Value, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rec, err := a.store.ReadOnce(ctx, path)
	if err != nil {
		return Null(), a.mapError(KindReadFailed, path, err)
	}
	if rec == nil {
		return Null(), nil
	}
	v, ok := rec[field]
	if !ok {
		return Null(), nil
	}
	return v, nil
}

// Subscribe delivers the current value of (path, field) immediately, then on
// every subsequent change, until the returned CancelFunc is called. Transient
// listen errors are logged and delivered as Null rather than propagated.
func (a *Accessor) Subscribe(path, field string, onUpdate UpdateFunc) (CancelFunc, error) {
	cancel, err := a.store.Subscribe(path, func(rec Record, err error) {
		if err != nil {
			a.log.Error(context.Background(), "listen error", "path", path, "field", field, "error", err)
			onUpdate(Null())
			return
		}
		if rec == nil {
			onUpdate(Null())
			return
		}
		v, ok := rec[field]
		if !ok {
			onUpdate(Null())
			return
		}
		onUpdate(v)
	})
	if err != nil {
		return nil, a.mapError(KindReadFailed, path, err)
	}
	return cancel, nil
}

// Delete removes the record at path.
func (a *Accessor) Delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if err := a.store.Delete(ctx, path); err != nil {
		return a.mapError(KindDeleteFailed, path, err)
	}
	return nil
}

func (a *Accessor) mapError(kind DataKind, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &DataError{Kind: kind, Path: path, Err: err}
}
