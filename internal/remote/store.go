package remote

import (
	"context"
	"io"
)

// CancelFunc releases a subscription. After it returns, no further deliveries
// occur for that subscription. Safe to call more than once.
type CancelFunc func()

// ChangeFunc receives record snapshots for a subscribed path. rec is nil when
// the path is absent. err is non-nil for transient listen failures; the
// snapshot accompanying an error is always nil.
type ChangeFunc func(rec Record, err error)

// Store is the shape shared by the document and tree flavors: path-addressed
// records with merge-or-replace writes and snapshot-then-updates
// subscriptions. Deliveries for one path preserve the backend's emission
// order; nothing is guaranteed across paths.
type Store interface {
	// Write persists rec at path. merge=true updates only the given fields,
	// merge=false replaces the whole addressed record.
	Write(ctx context.Context, path string, rec Record, merge bool) error

	// ReadOnce returns the record at path, or nil if absent. Absence is not
	// an error.
	ReadOnce(ctx context.Context, path string) (Record, error)

	// Subscribe invokes onChange once immediately with current state, then on
	// every subsequent change, until the returned CancelFunc is called.
	Subscribe(path string, onChange ChangeFunc) (CancelFunc, error)

	// Delete removes the record at path. Deleting an absent path is a no-op.
	Delete(ctx context.Context, path string) error
}

// DocumentStore is the document-flavor backend: slash-delimited paths where
// an even number of segments addresses a document and an odd number a
// collection.
type DocumentStore interface {
	Store
}

// TreeStore is the hierarchical realtime flavor: the same contract over a
// tree-shaped key space, with no even/odd path convention.
type TreeStore interface {
	Store
}

// BlobStore holds opaque file payloads addressed by path. Upload and
// DownloadURL return a URL the caller can fetch directly; the library never
// proxies blob bytes.
type BlobStore interface {
	Upload(ctx context.Context, path string, body io.Reader) (string, error)
	DownloadURL(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) error
}
