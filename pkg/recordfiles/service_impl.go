package recordfiles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// service implements the Service interface
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	permissions    PermissionChecker
	previewer      Previewer
	fileFactory    RecordFileFactory
	logger         *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the record repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore adds a blob storage backend. The first registered
// backend becomes the default unless WithDefaultBackend overrides it.
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
		if s.defaultBackend == "" {
			s.defaultBackend = name
		}
	}
}

// WithDefaultBackend names the backend used for file entries that do
// not name one.
func WithDefaultBackend(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithPermissionChecker sets the external authorization collaborator.
func WithPermissionChecker(checker PermissionChecker) Option {
	return func(s *service) {
		s.permissions = checker
	}
}

// WithPreviewer sets the previewable-extension collaborator.
func WithPreviewer(previewer Previewer) Option {
	return func(s *service) {
		s.previewer = previewer
	}
}

// WithRecordFileFactory overrides the default file resolution rule.
func WithRecordFileFactory(factory RecordFileFactory) Option {
	return func(s *service) {
		s.fileFactory = factory
	}
}

// WithLogger sets the logger used for non-fatal diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores: make(map[string]BlobStore),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.permissions == nil {
		return nil, fmt.Errorf("permission checker is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.fileFactory == nil {
		s.fileFactory = DefaultRecordFileFactory(s.previewer)
	}

	return s, nil
}

func (s *service) ResolveRecord(ctx context.Context, pidType, pidValue string) (PID, *Record, error) {
	pid := PID{Type: pidType, Value: pidValue}

	recordID, err := s.repository.ResolvePID(ctx, pidType, pidValue)
	if err != nil {
		return pid, nil, &DownloadError{PID: pid, Op: "resolve_pid", Err: err}
	}

	record, err := s.repository.GetRecord(ctx, recordID)
	if err != nil {
		return pid, nil, &DownloadError{PID: pid, Op: "get_record", Err: err}
	}

	return pid, record, nil
}

func (s *service) ResolveFile(ctx context.Context, pid PID, record *Record, filename string) (*ResolvedFile, error) {
	return resolveFile(s.fileFactory, pid, record, filename)
}

func (s *service) OpenFile(ctx context.Context, file *ResolvedFile) (io.ReadCloser, *ObjectMeta, error) {
	// Authorization comes first: nothing below may run, and no byte may
	// be written by the caller, before this check passes.
	if !s.permissions.CanReadFiles(ctx, file.Record) {
		return nil, nil, &DownloadError{PID: file.PID, Filename: file.Entry.Key, Op: "authorize", Err: ErrPermissionDenied}
	}

	store, err := s.backendFor(file.Entry)
	if err != nil {
		return nil, nil, err
	}

	objectKey := file.Entry.ObjectVersion.Key
	meta, err := store.GetObjectMeta(ctx, objectKey)
	if err != nil {
		return nil, nil, &DownloadError{PID: file.PID, Filename: file.Entry.Key, Op: "stat", Err: err}
	}

	if err := s.verifyChecksum(file, meta); err != nil {
		return nil, nil, err
	}

	rc, err := store.Download(ctx, objectKey)
	if err != nil {
		return nil, nil, &DownloadError{PID: file.PID, Filename: file.Entry.Key, Op: "open", Err: err}
	}

	return rc, meta, nil
}

// verifyChecksum compares the record's declared checksum with the
// backend's digest. A mismatch is a data-integrity fault; a backend
// that cannot produce a digest degrades to a logged skip.
func (s *service) verifyChecksum(file *ResolvedFile, meta *ObjectMeta) error {
	expected := file.Entry.Checksum
	if expected == "" {
		return nil
	}
	if meta.Checksum == "" {
		s.logger.Warn("checksum verification skipped: backend produced no digest",
			"key", file.Entry.Key,
			"bucket_id", file.BucketID,
			"pid_type", file.PID.Type,
			"pid_value", file.PID.Value)
		return nil
	}
	if !ChecksumsEqual(expected, meta.Checksum) {
		return &IntegrityError{
			BucketID: file.BucketID,
			PID:      file.PID,
			Key:      file.Entry.Key,
			Expected: expected,
			Actual:   meta.Checksum,
		}
	}
	return nil
}

func (s *service) CanListFiles(ctx context.Context, record *Record) bool {
	return s.permissions.CanReadFiles(ctx, record)
}

func (s *service) PreviewFiles(record *Record) []FileEntry {
	if record == nil {
		return []FileEntry{}
	}
	return NormalizeFiles(record.Files)
}

func (s *service) SelectPreview(record *Record) (FileEntry, bool) {
	if record == nil {
		return FileEntry{}, false
	}
	return SelectPreviewFile(s.previewer, NormalizeFiles(record.Files), record.DefaultPreview)
}

func (s *service) RegisterBackend(name string, backend BlobStore) {
	if s.blobStores == nil {
		s.blobStores = make(map[string]BlobStore)
	}
	s.blobStores[name] = backend
	if s.defaultBackend == "" {
		s.defaultBackend = name
	}
}

func (s *service) GetBackend(name string) (BlobStore, error) {
	store, ok := s.blobStores[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStorageBackendNotFound, name)
	}
	return store, nil
}

func (s *service) backendFor(entry *RecordFile) (BlobStore, error) {
	name := entry.ObjectVersion.Backend
	if name == "" {
		name = s.defaultBackend
	}
	return s.GetBackend(name)
}
