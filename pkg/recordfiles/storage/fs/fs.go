package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

// Backend is a filesystem implementation of the recordfiles.BlobStore interface
type Backend struct {
	baseDir string

	mu      sync.Mutex
	digests map[string]digestEntry
}

// digestEntry caches a computed checksum; it is valid while the file's
// size and modification time are unchanged.
type digestEntry struct {
	size     int64
	modTime  time.Time
	checksum string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory for storing files
}

// New creates a new filesystem storage backend
func New(config Config) (recordfiles.BlobStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{
		baseDir: config.BaseDir,
		digests: make(map[string]digestEntry),
	}, nil
}

// Upload uploads content directly to the filesystem
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// UploadWithParams uploads content with additional parameters. The
// filesystem does not store MIME types; they are detected on read.
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params recordfiles.UploadParams) error {
	return b.Upload(ctx, params.ObjectKey, reader)
}

// Download downloads content directly from the filesystem
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(b.baseDir, objectKey))
	if os.IsNotExist(err) {
		return nil, recordfiles.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// GetObjectMeta retrieves metadata for an object in the filesystem.
// The checksum is computed from the stored bytes on first access and
// cached against the file's size and modification time, so repeated
// downloads of an unchanged file do not re-digest it.
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*recordfiles.ObjectMeta, error) {
	filePath := filepath.Join(b.baseDir, objectKey)

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, recordfiles.ErrObjectNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	contentType := "application/octet-stream"
	if file, err := os.Open(filePath); err == nil {
		buffer := make([]byte, 512)
		if n, err := file.Read(buffer); err == nil || errors.Is(err, io.EOF) {
			contentType = http.DetectContentType(buffer[:n])
		}
		file.Close()
	}

	checksum := b.cachedDigest(filePath, info)

	return &recordfiles.ObjectMeta{
		Key:         objectKey,
		Size:        info.Size(),
		ContentType: contentType,
		Checksum:    checksum,
		UpdatedAt:   info.ModTime(),
		Metadata:    map[string]string{"content_type": contentType},
	}, nil
}

// cachedDigest returns the file's digest, recomputing it only when the
// size or modification time differ from the cached entry.
func (b *Backend) cachedDigest(filePath string, info os.FileInfo) string {
	b.mu.Lock()
	entry, ok := b.digests[filePath]
	b.mu.Unlock()

	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.checksum
	}

	file, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer file.Close()

	sum, err := recordfiles.ComputeChecksum(recordfiles.ChecksumAlgMD5, file)
	if err != nil {
		return ""
	}

	b.mu.Lock()
	b.digests[filePath] = digestEntry{
		size:     info.Size(),
		modTime:  info.ModTime(),
		checksum: sum,
	}
	b.mu.Unlock()

	return sum
}

// Delete deletes content from the filesystem
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	filePath := filepath.Join(b.baseDir, objectKey)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return recordfiles.ErrObjectNotFound
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	b.mu.Lock()
	delete(b.digests, filePath)
	b.mu.Unlock()

	b.cleanupEmptyDirectories(filepath.Dir(filePath))

	return nil
}

// cleanupEmptyDirectories recursively removes empty directories up to baseDir
func (b *Backend) cleanupEmptyDirectories(dir string) {
	if dir == b.baseDir {
		return
	}

	if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
		if os.Remove(dir) == nil {
			b.cleanupEmptyDirectories(filepath.Dir(dir))
		}
	}
}
