package recordfiles

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrRecordNotFound indicates a persistent identifier did not resolve to a record
	ErrRecordNotFound = errors.New("record not found")

	// ErrFileNotFound indicates a requested file was not found on the record
	ErrFileNotFound = errors.New("file not found")

	// ErrObjectNotFound indicates a stored object was not found in the backend
	ErrObjectNotFound = errors.New("object not found")

	// ErrPermissionDenied indicates the authorization collaborator declined access
	ErrPermissionDenied = errors.New("permission denied")

	// ErrChecksumMismatch indicates the stored bytes disagree with the recorded checksum
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrStorageBackendNotFound indicates a storage backend was not found
	ErrStorageBackendNotFound = errors.New("storage backend not found")

	// ErrSchemeUnresolvable indicates an identifier's scheme could not be classified
	ErrSchemeUnresolvable = errors.New("identifier scheme unresolvable")
)

// DownloadError represents an error during file resolution or download
type DownloadError struct {
	PID      PID
	Filename string
	Op       string
	Err      error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download operation %s failed for %s:%s file %q: %v",
		e.Op, e.PID.Type, e.PID.Value, e.Filename, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a checksum disagreement between a record's
// file entry and the bytes held by the storage backend. It carries the
// bucket and identifier context required for operator follow-up.
type IntegrityError struct {
	BucketID uuid.UUID
	PID      PID
	Key      string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity fault for file %q (bucket %s, pid %s:%s): expected %s, got %s",
		e.Key, e.BucketID, e.PID.Type, e.PID.Value, e.Expected, e.Actual)
}

func (e *IntegrityError) Unwrap() error {
	return ErrChecksumMismatch
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
