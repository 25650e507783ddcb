package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Passport Scan.PDF")
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotContains(t, key, " ")

	// Keys must differ for identical filenames.
	assert.NotEqual(t, ObjectKey("doc.pdf"), ObjectKey("doc.pdf"))

	assert.False(t, strings.Contains(ObjectKey("no-extension"), "."))
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"), "/uploads")
	require.NoError(t, err)

	locator, err := store.Store(context.Background(), "doc.pdf", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(locator, "/uploads/"))
	assert.True(t, strings.HasSuffix(locator, ".pdf"))

	key := strings.TrimPrefix(locator, "/uploads/")
	content, err := os.ReadFile(filepath.Join(dir, "uploads", key))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestLocalStoreDistinctLocators(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	first, err := store.Store(context.Background(), "doc.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Store(context.Background(), "doc.pdf", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
