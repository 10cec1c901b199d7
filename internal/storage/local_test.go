package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "task_1/abc_report.docx", []byte("hello"), "application/msword"))
	require.NoError(t, store.Upload(ctx, "task_1/def_notes.txt", []byte("notes"), "text/plain"))
	require.NoError(t, store.Upload(ctx, "task_2/xyz_other.zip", []byte("zip"), "application/zip"))

	require.Equal(t, "http://localhost:8080/files/task_1/abc_report.docx", store.PublicURL("task_1/abc_report.docx"))

	keys, err := store.ListPrefix(ctx, "task_1")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"task_1/abc_report.docx", "task_1/def_notes.txt"}, keys)

	require.NoError(t, store.Remove(ctx, keys))

	keys, err = store.ListPrefix(ctx, "task_1")
	require.NoError(t, err)
	require.Empty(t, keys)

	// Removing an already-missing object is not an error.
	require.NoError(t, store.Remove(ctx, []string{"task_1/abc_report.docx"}))

	// Objects under other prefixes are untouched.
	keys, err = store.ListPrefix(ctx, "task_2")
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestLocalStoreListMissingPrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	keys, err := store.ListPrefix(context.Background(), "task_999")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestLocalStoreNeutralizesTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	// A ".." segment cannot climb out of the storage root; the object lands
	// inside it instead.
	require.NoError(t, store.Upload(context.Background(), "../escape.txt", []byte("x"), "text/plain"))

	keys, err := store.ListPrefix(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"escape.txt"}, keys)
}
