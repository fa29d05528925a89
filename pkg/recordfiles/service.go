package recordfiles

import (
	"context"
	"io"
)

// Service defines the main interface for the record-files presentation
// library: resolving a record's files from a persistent identifier,
// gating access, and opening verified streams for download.
type Service interface {
	// ResolveRecord resolves a persistent identifier to a record.
	ResolveRecord(ctx context.Context, pidType, pidValue string) (PID, *Record, error)

	// ResolveFile resolves a filename (or, when empty, the default
	// selection) to a concrete stored file on the record.
	ResolveFile(ctx context.Context, pid PID, record *Record, filename string) (*ResolvedFile, error)

	// OpenFile enforces the read-files permission, verifies the stored
	// object's checksum against the record's entry, and only then opens
	// a streaming reader. The caller owns closing the reader.
	OpenFile(ctx context.Context, file *ResolvedFile) (io.ReadCloser, *ObjectMeta, error)

	// CanListFiles reports whether the caller may list the record's files.
	CanListFiles(ctx context.Context, record *Record) bool

	// PreviewFiles returns the record's files normalized for the previewer.
	PreviewFiles(record *Record) []FileEntry

	// SelectPreview picks the record's preview candidate.
	SelectPreview(record *Record) (FileEntry, bool)

	// Storage backend operations
	RegisterBackend(name string, backend BlobStore)
	GetBackend(name string) (BlobStore, error)
}
