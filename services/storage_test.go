package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	content := "hello storage"
	key := "beekeepers/1/sites/2/journal.xlsx"

	t.Run("UploadReader creates file", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, strings.NewReader(content), key, XLSXContentType, int64(len(content)))
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, "journal.xlsx", result.FileName)
		assert.Equal(t, int64(len(content)), result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get retrieves file content", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, XLSXContentType, contentType)
	})

	t.Run("Delete removes file and tolerates missing ones", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, storage.Delete(ctx, key))
	})
}

func TestGenerateSiteArchiveKey(t *testing.T) {
	key := GenerateSiteArchiveKey(3, 9)
	assert.True(t, strings.HasPrefix(key, "beekeepers/3/sites/9/"))
	assert.True(t, strings.HasSuffix(key, ".xlsx"))
	assert.NotEqual(t, key, GenerateSiteArchiveKey(3, 9))
}
