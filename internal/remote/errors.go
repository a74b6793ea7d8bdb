package remote

import (
	"errors"
	"fmt"
)

// DataKind classifies remote-data failures.
type DataKind int

const (
	KindWriteFailed DataKind = iota
	KindReadFailed
	KindDeleteFailed
	KindTimeout
)

func (k DataKind) String() string {
	switch k {
	case KindWriteFailed:
		return "write failed"
	case KindReadFailed:
		return "read failed"
	case KindDeleteFailed:
		return "delete failed"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// DataError is the typed result every Accessor operation returns on failure.
// Match with errors.As.
type DataError struct {
	Kind DataKind
	Path string
	Err  error
}

func (e *DataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// ErrInvalidPath reports a path that violates the document-store segment
// convention.
var ErrInvalidPath = errors.New("invalid path")
