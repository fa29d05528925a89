package memory

import (
	"bytes"
	"context"
	"crypto/md5"
	"io"
	"sync"
	"time"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

// Backend is an in-memory implementation of the recordfiles.BlobStore
// interface, intended for tests and development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
}

type object struct {
	data      []byte
	mimeType  string
	checksum  string
	updatedAt time.Time
}

// New creates a new in-memory storage backend
func New() recordfiles.BlobStore {
	return &Backend{objects: make(map[string]object)}
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, recordfiles.UploadParams{
		ObjectKey: objectKey,
		MimeType:  "application/octet-stream",
	})
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params recordfiles.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	sum := md5.Sum(data)

	b.mu.Lock()
	defer b.mu.Unlock()

	mimeType := params.MimeType
	if mimeType == "" {
		if existing, ok := b.objects[params.ObjectKey]; ok {
			mimeType = existing.mimeType
		} else {
			mimeType = "application/octet-stream"
		}
	}

	b.objects[params.ObjectKey] = object{
		data:      data,
		mimeType:  mimeType,
		checksum:  recordfiles.FormatChecksum(recordfiles.ChecksumAlgMD5, sum[:]),
		updatedAt: time.Now().UTC(),
	}
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, recordfiles.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*recordfiles.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, recordfiles.ErrObjectNotFound
	}

	return &recordfiles.ObjectMeta{
		Key:         objectKey,
		Size:        int64(len(obj.data)),
		ContentType: obj.mimeType,
		Checksum:    obj.checksum,
		UpdatedAt:   obj.updatedAt,
		Metadata:    map[string]string{"mime_type": obj.mimeType},
	}, nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return recordfiles.ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	return nil
}
