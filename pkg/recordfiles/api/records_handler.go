package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
	"github.com/rdmkit/recordfiles/pkg/utils"
)

// DefaultPIDType is the persistent-identifier type served by the
// records routes unless the host configures another.
const DefaultPIDType = "recid"

// RecordsHandler serves record file listings and secure downloads.
type RecordsHandler struct {
	service recordfiles.Service
	pidType string

	// hideForbidden maps permission denials to 404 instead of 403 so
	// restricted records do not leak their existence.
	hideForbidden bool
}

// NewRecordsHandler creates a new records handler. An empty pidType
// falls back to DefaultPIDType.
func NewRecordsHandler(service recordfiles.Service, pidType string, hideForbidden bool) *RecordsHandler {
	if pidType == "" {
		pidType = DefaultPIDType
	}
	return &RecordsHandler{
		service:       service,
		pidType:       pidType,
		hideForbidden: hideForbidden,
	}
}

// Routes returns the router for record file endpoints
func (h *RecordsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{pid_value}/files", h.ListFiles)
	r.Get("/{pid_value}/files/{filename}", h.DownloadFile)
	return r
}

// FileListResponse is the JSON listing of a record's files.
type FileListResponse struct {
	Entries        []recordfiles.FileEntry `json:"entries"`
	DefaultPreview string                  `json:"default_preview,omitempty"`
}

// ListFiles returns the record's normalized file entries. Listing is
// gated by the same read-files permission as downloads.
func (h *RecordsHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	pidValue := chi.URLParam(r, "pid_value")

	_, record, err := h.service.ResolveRecord(r.Context(), h.pidType, pidValue)
	if err != nil {
		h.renderResolveError(w, r, pidValue, err)
		return
	}

	if !h.service.CanListFiles(r.Context(), record) {
		h.renderDenied(w, r)
		return
	}

	render.JSON(w, r, FileListResponse{
		Entries:        h.service.PreviewFiles(record),
		DefaultPreview: record.DefaultPreview,
	})
}

// DownloadFile streams one of the record's files. The filename path
// segment selects the file; the presence of a `download` query
// argument, with any value, switches the response from inline to
// attachment disposition.
func (h *RecordsHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	pidValue := chi.URLParam(r, "pid_value")
	filename := chi.URLParam(r, "filename")

	pid, record, err := h.service.ResolveRecord(r.Context(), h.pidType, pidValue)
	if err != nil {
		h.renderResolveError(w, r, pidValue, err)
		return
	}

	// Denied before the filename is even looked up, so a restricted
	// record answers the same status for existing and missing filenames.
	if !h.service.CanListFiles(r.Context(), record) {
		h.renderDenied(w, r)
		return
	}

	file, err := h.service.ResolveFile(r.Context(), pid, record, filename)
	if err != nil {
		if errors.Is(err, recordfiles.ErrFileNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		slog.Error("File resolution failed", "pid_value", pidValue, "filename", filename, "err", err)
		http.Error(w, "File resolution failed", http.StatusInternalServerError)
		return
	}

	// The permission check and checksum verification both happen inside
	// OpenFile, before the reader exists, so no body byte can precede
	// either of them.
	rc, meta, err := h.service.OpenFile(r.Context(), file)
	if err != nil {
		h.renderOpenError(w, r, file, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", meta.Size))
	if file.Entry.Checksum != "" {
		w.Header().Set("ETag", fmt.Sprintf("%q", file.Entry.Checksum))
	}
	if _, ok := r.URL.Query()["download"]; ok {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", utils.SanitizeFilename(file.Entry.Key)))
	} else {
		w.Header().Set("Content-Disposition", "inline")
	}

	written, err := io.Copy(w, rc)
	if err != nil {
		// Client went away mid-stream or storage read failed; headers
		// are already out, so only the trace log can record it.
		slog.Warn("File stream aborted",
			"bucket_id", file.BucketID,
			"pid_type", file.PID.Type,
			"pid_value", file.PID.Value,
			"key", file.Entry.Key,
			"bytes_written", written,
			"err", err)
		return
	}

	slog.Info("File streamed",
		"bucket_id", file.BucketID,
		"pid_type", file.PID.Type,
		"pid_value", file.PID.Value,
		"key", file.Entry.Key,
		"bytes_written", written)
}

func (h *RecordsHandler) renderResolveError(w http.ResponseWriter, r *http.Request, pidValue string, err error) {
	if errors.Is(err, recordfiles.ErrRecordNotFound) {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	slog.Error("Record resolution failed", "pid_value", pidValue, "err", err)
	http.Error(w, "Record resolution failed", http.StatusInternalServerError)
}

func (h *RecordsHandler) renderDenied(w http.ResponseWriter, r *http.Request) {
	if h.hideForbidden {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	http.Error(w, "Permission denied", http.StatusForbidden)
}

func (h *RecordsHandler) renderOpenError(w http.ResponseWriter, r *http.Request, file *recordfiles.ResolvedFile, err error) {
	switch {
	case errors.Is(err, recordfiles.ErrPermissionDenied):
		h.renderDenied(w, r)
	case errors.Is(err, recordfiles.ErrChecksumMismatch):
		// Storage corruption: never serve the body as valid content.
		slog.Error("File integrity fault",
			"bucket_id", file.BucketID,
			"pid_type", file.PID.Type,
			"pid_value", file.PID.Value,
			"key", file.Entry.Key,
			"err", err)
		http.Error(w, "File integrity check failed", http.StatusInternalServerError)
	case errors.Is(err, recordfiles.ErrObjectNotFound):
		http.Error(w, "File not found", http.StatusNotFound)
	default:
		slog.Error("File open failed",
			"bucket_id", file.BucketID,
			"pid_type", file.PID.Type,
			"pid_value", file.PID.Value,
			"key", file.Entry.Key,
			"err", err)
		http.Error(w, "Storage backend unavailable", http.StatusBadGateway)
	}
}
