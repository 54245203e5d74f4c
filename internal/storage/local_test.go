package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	size, err := store.Put(ctx, "tenant-a/2026/report.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = store.Put(ctx, "tenant-a/2026/report.txt", strings.NewReader("again"), "text/plain")
	assert.ErrorIs(t, err, ErrExists)

	rc, err := store.Open(ctx, "tenant-a/2026/report.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, "tenant-a/2026/report.txt"))
	_, err = store.Open(ctx, "tenant-a/2026/report.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "tenant-a/2026/report.txt"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../outside", "a/../../b"} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalPresignUnsupported(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.PresignURL(context.Background(), "a.txt", 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}
