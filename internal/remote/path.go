package remote

import (
	"fmt"
	"strings"
)

// SplitPath splits a slash-delimited path into its segments, rejecting empty
// paths and empty segments.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, path)
		}
	}
	return segs, nil
}

// ValidateDocPath enforces the document-store convention: an even number of
// segments addresses a document, odd addresses a collection. Record
// operations require a document path.
func ValidateDocPath(path string) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	if len(segs)%2 != 0 {
		return fmt.Errorf("%w: %q addresses a collection, not a document", ErrInvalidPath, path)
	}
	return nil
}

// JoinPath joins segments with slashes.
func JoinPath(segs ...string) string {
	return strings.Join(segs, "/")
}
