package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

// Repository implements recordfiles.Repository using in-memory storage
type Repository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*recordfiles.Record
	pids    map[string]uuid.UUID // "pid_type:pid_value" -> record_id
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		records: make(map[uuid.UUID]*recordfiles.Record),
		pids:    make(map[string]uuid.UUID),
	}
}

func pidKey(pidType, pidValue string) string {
	return fmt.Sprintf("%s:%s", pidType, pidValue)
}

// copyRecord returns a deep enough copy that callers cannot mutate the
// stored record or its file collection.
func copyRecord(r *recordfiles.Record) *recordfiles.Record {
	recordCopy := *r
	if r.Files != nil {
		recordCopy.Files = make(map[string]*recordfiles.RecordFile, len(r.Files))
		for k, f := range r.Files {
			fileCopy := *f
			recordCopy.Files[k] = &fileCopy
		}
	}
	return &recordCopy
}

func (r *Repository) CreateRecord(ctx context.Context, record *recordfiles.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.ID] = copyRecord(record)
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*recordfiles.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, recordfiles.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

func (r *Repository) GetRecordByPID(ctx context.Context, pidType, pidValue string) (*recordfiles.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.pids[pidKey(pidType, pidValue)]
	if !exists {
		return nil, recordfiles.ErrRecordNotFound
	}
	record, exists := r.records[id]
	if !exists {
		return nil, recordfiles.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

func (r *Repository) UpdateRecord(ctx context.Context, record *recordfiles.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; !exists {
		return recordfiles.ErrRecordNotFound
	}
	r.records[record.ID] = copyRecord(record)
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[id]; !exists {
		return recordfiles.ErrRecordNotFound
	}
	delete(r.records, id)
	for key, recordID := range r.pids {
		if recordID == id {
			delete(r.pids, key)
		}
	}
	return nil
}

func (r *Repository) SetFileEntry(ctx context.Context, recordID uuid.UUID, file *recordfiles.RecordFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.records[recordID]
	if !exists {
		return recordfiles.ErrRecordNotFound
	}
	if record.Files == nil {
		record.Files = make(map[string]*recordfiles.RecordFile)
	}

	fileCopy := *file
	now := time.Now().UTC()
	if fileCopy.CreatedAt.IsZero() {
		fileCopy.CreatedAt = now
	}
	fileCopy.UpdatedAt = now
	record.Files[file.Key] = &fileCopy
	record.UpdatedAt = now
	return nil
}

func (r *Repository) ListFileEntries(ctx context.Context, recordID uuid.UUID) ([]*recordfiles.RecordFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[recordID]
	if !exists {
		return nil, recordfiles.ErrRecordNotFound
	}

	files := make([]*recordfiles.RecordFile, 0, len(record.Files))
	for _, f := range record.Files {
		fileCopy := *f
		files = append(files, &fileCopy)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

func (r *Repository) RegisterPID(ctx context.Context, pid recordfiles.PID, recordID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[recordID]; !exists {
		return recordfiles.ErrRecordNotFound
	}
	r.pids[pidKey(pid.Type, pid.Value)] = recordID
	return nil
}

func (r *Repository) ResolvePID(ctx context.Context, pidType, pidValue string) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.pids[pidKey(pidType, pidValue)]
	if !exists {
		return uuid.Nil, recordfiles.ErrRecordNotFound
	}
	return id, nil
}
