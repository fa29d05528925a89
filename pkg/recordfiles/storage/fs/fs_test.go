package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
	"github.com/rdmkit/recordfiles/pkg/recordfiles/storage/fs"
)

func TestFSBackend(t *testing.T) {
	tempDir := t.TempDir()

	backend, err := fs.New(fs.Config{BaseDir: tempDir})
	require.NoError(t, err)

	ctx := context.Background()
	objectKey := "records/abcd-1234/data.txt"
	content := "Hello, World!"

	// Upload
	err = backend.Upload(ctx, objectKey, strings.NewReader(content))
	assert.NoError(t, err)

	filePath := filepath.Join(tempDir, objectKey)
	_, err = os.Stat(filePath)
	assert.NoError(t, err)

	// Download
	reader, err := backend.Download(ctx, objectKey)
	assert.NoError(t, err)

	data, err := io.ReadAll(reader)
	reader.Close()
	assert.NoError(t, err)
	assert.Equal(t, content, string(data))

	// Delete
	err = backend.Delete(ctx, objectKey)
	assert.NoError(t, err)

	_, err = os.Stat(filePath)
	assert.True(t, os.IsNotExist(err))

	// Empty parent directories are cleaned up with the object
	_, err = os.Stat(filepath.Join(tempDir, "records"))
	assert.True(t, os.IsNotExist(err))
}

func TestFSBackendGetObjectMeta(t *testing.T) {
	backend, err := fs.New(fs.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()
	objectKey := "abcd-1234/page.html"
	content := "<html><body>hi</body></html>"

	require.NoError(t, backend.Upload(ctx, objectKey, strings.NewReader(content)))

	meta, err := backend.GetObjectMeta(ctx, objectKey)
	require.NoError(t, err)

	assert.Equal(t, objectKey, meta.Key)
	assert.Equal(t, int64(len(content)), meta.Size)
	assert.Contains(t, meta.ContentType, "text/html")

	expected, err := recordfiles.ComputeChecksum(recordfiles.ChecksumAlgMD5, strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, expected, meta.Checksum)
}

func TestFSBackendDigestCache(t *testing.T) {
	tempDir := t.TempDir()
	backend, err := fs.New(fs.Config{BaseDir: tempDir})
	require.NoError(t, err)

	ctx := context.Background()
	objectKey := "abcd-1234/data.txt"
	filePath := filepath.Join(tempDir, objectKey)

	require.NoError(t, backend.Upload(ctx, objectKey, strings.NewReader("aaaa")))

	first, err := backend.GetObjectMeta(ctx, objectKey)
	require.NoError(t, err)

	info, err := os.Stat(filePath)
	require.NoError(t, err)

	// Rewrite the bytes but restore the size and mtime: the cached
	// digest is served without re-reading the file.
	require.NoError(t, os.WriteFile(filePath, []byte("bbbb"), 0644))
	require.NoError(t, os.Chtimes(filePath, info.ModTime(), info.ModTime()))

	cached, err := backend.GetObjectMeta(ctx, objectKey)
	require.NoError(t, err)
	assert.Equal(t, first.Checksum, cached.Checksum)

	// A newer mtime invalidates the entry and the digest is recomputed.
	later := info.ModTime().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(filePath, later, later))

	fresh, err := backend.GetObjectMeta(ctx, objectKey)
	require.NoError(t, err)
	assert.NotEqual(t, first.Checksum, fresh.Checksum)

	expected, err := recordfiles.ComputeChecksum(recordfiles.ChecksumAlgMD5, strings.NewReader("bbbb"))
	require.NoError(t, err)
	assert.Equal(t, expected, fresh.Checksum)

	// Deleting and re-uploading under the same key never serves the old digest.
	require.NoError(t, backend.Delete(ctx, objectKey))
	require.NoError(t, backend.Upload(ctx, objectKey, strings.NewReader("cc")))

	reuploaded, err := backend.GetObjectMeta(ctx, objectKey)
	require.NoError(t, err)
	expected, err = recordfiles.ComputeChecksum(recordfiles.ChecksumAlgMD5, strings.NewReader("cc"))
	require.NoError(t, err)
	assert.Equal(t, expected, reuploaded.Checksum)
}

func TestFSBackendMissingObject(t *testing.T) {
	backend, err := fs.New(fs.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	ctx := context.Background()

	_, err = backend.Download(ctx, "nope.txt")
	assert.ErrorIs(t, err, recordfiles.ErrObjectNotFound)

	_, err = backend.GetObjectMeta(ctx, "nope.txt")
	assert.ErrorIs(t, err, recordfiles.ErrObjectNotFound)

	err = backend.Delete(ctx, "nope.txt")
	assert.ErrorIs(t, err, recordfiles.ErrObjectNotFound)
}

func TestFSBackendRequiresBaseDir(t *testing.T) {
	_, err := fs.New(fs.Config{})
	assert.Error(t, err)
}
