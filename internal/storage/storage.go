// Package storage persists uploaded documents and returns opaque locators.
// The lifecycle core only ever stores the locator string.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store accepts raw file content plus its original name and returns a
// locator (local path or remote URL).
type Store interface {
	Store(ctx context.Context, name string, content io.Reader) (string, error)
}

// ObjectKey builds a collision-resistant storage key for an upload. The
// original filename contributes only its extension; uniqueness comes from
// the random token, never from submission time.
func ObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}
