package local_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight/ipsearch/internal/archive/local"
)

func TestNew(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		store, err := local.New(local.Config{BaseDir: t.TempDir()})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("MissingBaseDir", func(t *testing.T) {
		_, err := local.New(local.Config{})
		assert.Error(t, err)
	})

	t.Run("BaseDirIsNotADirectory", func(t *testing.T) {
		tempFile, err := os.CreateTemp("", "testfile")
		require.NoError(t, err)
		t.Cleanup(func() {
			if removeErr := os.Remove(tempFile.Name()); removeErr != nil && !os.IsNotExist(removeErr) {
				t.Fatalf("failed to remove temp file: %v", removeErr)
			}
		})

		_, err = local.New(local.Config{BaseDir: tempFile.Name()})
		assert.Error(t, err)
	})

	t.Run("CreatesMissingBaseDir", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "nested", "archive")
		_, err := local.New(local.Config{BaseDir: base})
		require.NoError(t, err)

		info, err := os.Stat(base)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestPut(t *testing.T) {
	tempDir := t.TempDir()
	store, err := local.New(local.Config{BaseDir: tempDir})
	require.NoError(t, err)

	t.Run("ValidPut", func(t *testing.T) {
		data := []byte(`{"adapter":"index"}`)
		entry, err := store.Put(context.Background(), "searches/abc/index.json", "application/json", data)
		require.NoError(t, err)

		assert.Equal(t, "file://"+filepath.Join(tempDir, "searches/abc/index.json"), entry.Link)
		assert.Len(t, entry.Hash, 64)
		assert.Equal(t, "application/json", entry.ContentType)
		assert.Equal(t, len(data), entry.Bytes)

		written, err := os.ReadFile(filepath.Join(tempDir, "searches/abc/index.json"))
		require.NoError(t, err)
		assert.Equal(t, data, written)
	})

	t.Run("EmptyKey", func(t *testing.T) {
		_, err := store.Put(context.Background(), "", "text/plain", []byte("data"))
		assert.Error(t, err)
	})

	t.Run("TraversalRejected", func(t *testing.T) {
		_, err := store.Put(context.Background(), "../outside.txt", "text/plain", []byte("data"))
		assert.Error(t, err)
	})

	t.Run("SameDataSameHash", func(t *testing.T) {
		first, err := store.Put(context.Background(), "a/one.bin", "", []byte("payload"))
		require.NoError(t, err)
		second, err := store.Put(context.Background(), "b/two.bin", "", []byte("payload"))
		require.NoError(t, err)
		assert.Equal(t, first.Hash, second.Hash)
	})
}
