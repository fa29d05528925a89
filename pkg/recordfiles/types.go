package recordfiles

import (
	"time"

	"github.com/google/uuid"
)

// PID is an opaque persistent identifier pointing at a record. It is
// resolved to a concrete record by an external resolver; this package
// only carries it through for resolution and log context.
type PID struct {
	Type  string `json:"pid_type"`
	Value string `json:"pid_value"`
}

// ObjectVersion locates the stored bytes of a file inside a bucket.
// Backend names the storage backend holding the object; empty means
// the service's default backend.
type ObjectVersion struct {
	BucketID  uuid.UUID `json:"bucket_id"`
	Key       string    `json:"key"`
	VersionID uuid.UUID `json:"version_id"`
	Backend   string    `json:"storage_backend_name,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
	Size      int64     `json:"size"`
}

// RecordFile is a record's internal file object: a named, checksummed
// reference to stored binary content plus optional free-form metadata.
type RecordFile struct {
	Key           string                 `json:"key"`
	Checksum      string                 `json:"checksum"`
	Size          int64                  `json:"size"`
	ObjectVersion ObjectVersion          `json:"object_version"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Record represents the metadata entity owning a file collection. The
// file map is keyed by file key; iteration order is irrelevant, all
// consumers that need determinism sort by key first.
type Record struct {
	ID             uuid.UUID              `json:"id"`
	Files          map[string]*RecordFile `json:"files,omitempty"`
	DefaultPreview string                 `json:"default_preview,omitempty"`
	Access         string                 `json:"access,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// FileEntry is the normalized form of a RecordFile handed to the
// previewer and templates: the object reference plus the file's
// metadata, which defaults to an empty mapping rather than nil.
type FileEntry struct {
	Key      string                 `json:"key"`
	Checksum string                 `json:"checksum,omitempty"`
	Size     int64                  `json:"size"`
	Obj      ObjectVersion          `json:"obj"`
	Data     map[string]interface{} `json:"data"`
}

// ResolvedFile is the outcome of resolving a (pid, filename) pair to a
// concrete stored object. Transient, scoped to a single request.
type ResolvedFile struct {
	Entry    *RecordFile
	Record   *Record
	PID      PID
	BucketID uuid.UUID
}

// DownloadRequest carries the per-request download parameters.
// Filename may be empty, in which case the record file factory applies
// its default-selection rule.
type DownloadRequest struct {
	PID          PID
	Filename     string
	AsAttachment bool
}

// ObjectMeta describes an object as known to a storage backend.
// Checksum is algorithm-prefixed ("md5:<hex>"); backends that cannot
// produce one leave it empty.
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	Checksum    string
	UpdatedAt   time.Time
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading an object.
type UploadParams struct {
	ObjectKey string
	MimeType  string
}
