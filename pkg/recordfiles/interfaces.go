package recordfiles

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for storage backends holding the
// actual file bytes. Download returns a streaming reader; callers own
// closing it on every exit path.
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// Delete deletes content
	Delete(ctx context.Context, objectKey string) error
}

// Repository defines the interface for record persistence. Records and
// their file entries are written by an external system; this module
// only reads them, plus the create/update operations the server's
// provisioning path needs.
type Repository interface {
	CreateRecord(ctx context.Context, record *Record) error
	GetRecord(ctx context.Context, id uuid.UUID) (*Record, error)
	GetRecordByPID(ctx context.Context, pidType, pidValue string) (*Record, error)
	UpdateRecord(ctx context.Context, record *Record) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error

	SetFileEntry(ctx context.Context, recordID uuid.UUID, file *RecordFile) error
	ListFileEntries(ctx context.Context, recordID uuid.UUID) ([]*RecordFile, error)

	RegisterPID(ctx context.Context, pid PID, recordID uuid.UUID) error
	ResolvePID(ctx context.Context, pidType, pidValue string) (uuid.UUID, error)
}

// PermissionChecker is the capability interface implemented by the
// external authorization collaborator. The check must complete, and
// its outcome be enforced, before any file byte is streamed.
type PermissionChecker interface {
	CanReadFiles(ctx context.Context, record *Record) bool
}

// Previewer is the external preview-rendering collaborator. Only the
// previewable-extension predicate is consumed here.
type Previewer interface {
	// IsPreviewable reports whether files with the given lowercase
	// extension (without the dot) can be rendered inline.
	IsPreviewable(extension string) bool
}

// VocabularyService resolves controlled-vocabulary entries to
// human-readable titles.
type VocabularyService interface {
	// TitleByDict returns the title matching the given key dict within
	// the named vocabulary, and whether a match was found.
	TitleByDict(vocabularyKey string, dict map[string]string) (string, bool)
}

// UISerializer produces the UI representation of a record.
type UISerializer interface {
	SerializeRecord(record *Record) (map[string]interface{}, error)
}

// RecordFileFactory resolves a (pid, record, filename) triple to one of
// the record's files. An empty filename asks the factory to apply its
// own default-selection rule. The second return value reports presence.
type RecordFileFactory func(pid PID, record *Record, filename string) (*RecordFile, bool)

// PermissionCheckerFunc adapts a plain function to PermissionChecker.
type PermissionCheckerFunc func(ctx context.Context, record *Record) bool

func (f PermissionCheckerFunc) CanReadFiles(ctx context.Context, record *Record) bool {
	return f(ctx, record)
}

// PreviewerFunc adapts a plain predicate to Previewer.
type PreviewerFunc func(extension string) bool

func (f PreviewerFunc) IsPreviewable(extension string) bool { return f(extension) }

// ExtensionPreviewer is a Previewer backed by a fixed extension set.
type ExtensionPreviewer map[string]struct{}

// NewExtensionPreviewer builds an ExtensionPreviewer from extensions
// (without dots); matching is case-insensitive on the caller's side,
// extensions are stored as given.
func NewExtensionPreviewer(extensions ...string) ExtensionPreviewer {
	p := make(ExtensionPreviewer, len(extensions))
	for _, ext := range extensions {
		p[ext] = struct{}{}
	}
	return p
}

func (p ExtensionPreviewer) IsPreviewable(extension string) bool {
	_, ok := p[extension]
	return ok
}
