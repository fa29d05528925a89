package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rdmkit/recordfiles/pkg/recordfiles"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements recordfiles.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) recordfiles.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) recordfiles.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "pid") {
				return fmt.Errorf("pid already registered")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return recordfiles.ErrRecordNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return recordfiles.ErrRecordNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateRecord(ctx context.Context, record *recordfiles.Record) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	query := `
		INSERT INTO record (id, default_preview, access, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.DefaultPreview, record.Access, record.Metadata,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create_record", err)
	}

	for _, f := range record.Files {
		if err := r.SetFileEntry(ctx, record.ID, f); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetRecord(ctx context.Context, id uuid.UUID) (*recordfiles.Record, error) {
	query := `
		SELECT id, default_preview, access, metadata, created_at, updated_at
		FROM record
		WHERE id = $1`

	record := &recordfiles.Record{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&record.ID, &record.DefaultPreview, &record.Access, &record.Metadata,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, r.handlePostgresError("get_record", err)
	}

	files, err := r.ListFileEntries(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Files = make(map[string]*recordfiles.RecordFile, len(files))
	for _, f := range files {
		record.Files[f.Key] = f
	}

	return record, nil
}

func (r *Repository) GetRecordByPID(ctx context.Context, pidType, pidValue string) (*recordfiles.Record, error) {
	id, err := r.ResolvePID(ctx, pidType, pidValue)
	if err != nil {
		return nil, err
	}
	return r.GetRecord(ctx, id)
}

func (r *Repository) UpdateRecord(ctx context.Context, record *recordfiles.Record) error {
	record.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE record
		SET default_preview = $2, access = $3, metadata = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		record.ID, record.DefaultPreview, record.Access, record.Metadata, record.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update_record", err)
	}
	if tag.RowsAffected() == 0 {
		return recordfiles.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM pid WHERE record_id = $1`, id); err != nil {
		return r.handlePostgresError("delete_record_pids", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM record_file WHERE record_id = $1`, id); err != nil {
		return r.handlePostgresError("delete_record_files", err)
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM record WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete_record", err)
	}
	if tag.RowsAffected() == 0 {
		return recordfiles.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SetFileEntry(ctx context.Context, recordID uuid.UUID, file *recordfiles.RecordFile) error {
	now := time.Now().UTC()
	if file.CreatedAt.IsZero() {
		file.CreatedAt = now
	}
	file.UpdatedAt = now

	query := `
		INSERT INTO record_file (
			record_id, key, checksum, size, bucket_id, object_key,
			version_id, storage_backend_name, mime_type, metadata,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (record_id, key) DO UPDATE SET
			checksum = EXCLUDED.checksum,
			size = EXCLUDED.size,
			bucket_id = EXCLUDED.bucket_id,
			object_key = EXCLUDED.object_key,
			version_id = EXCLUDED.version_id,
			storage_backend_name = EXCLUDED.storage_backend_name,
			mime_type = EXCLUDED.mime_type,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		recordID, file.Key, file.Checksum, file.Size,
		file.ObjectVersion.BucketID, file.ObjectVersion.Key,
		file.ObjectVersion.VersionID, file.ObjectVersion.Backend,
		file.ObjectVersion.MimeType, file.Metadata,
		file.CreatedAt, file.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("set_file_entry", err)
	}
	return nil
}

func (r *Repository) ListFileEntries(ctx context.Context, recordID uuid.UUID) ([]*recordfiles.RecordFile, error) {
	query := `
		SELECT key, checksum, size, bucket_id, object_key, version_id,
		       storage_backend_name, mime_type, metadata, created_at, updated_at
		FROM record_file
		WHERE record_id = $1
		ORDER BY key`

	rows, err := r.db.Query(ctx, query, recordID)
	if err != nil {
		return nil, r.handlePostgresError("list_file_entries", err)
	}
	defer rows.Close()

	var files []*recordfiles.RecordFile
	for rows.Next() {
		f := &recordfiles.RecordFile{}
		err := rows.Scan(
			&f.Key, &f.Checksum, &f.Size,
			&f.ObjectVersion.BucketID, &f.ObjectVersion.Key, &f.ObjectVersion.VersionID,
			&f.ObjectVersion.Backend, &f.ObjectVersion.MimeType, &f.Metadata,
			&f.CreatedAt, &f.UpdatedAt)
		if err != nil {
			return nil, r.handlePostgresError("scan_file_entry", err)
		}
		f.ObjectVersion.Size = f.Size
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list_file_entries", err)
	}

	return files, nil
}

func (r *Repository) RegisterPID(ctx context.Context, pid recordfiles.PID, recordID uuid.UUID) error {
	query := `
		INSERT INTO pid (pid_type, pid_value, record_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (pid_type, pid_value) DO UPDATE SET record_id = EXCLUDED.record_id`

	_, err := r.db.Exec(ctx, query, pid.Type, pid.Value, recordID)
	if err != nil {
		return r.handlePostgresError("register_pid", err)
	}
	return nil
}

func (r *Repository) ResolvePID(ctx context.Context, pidType, pidValue string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT record_id FROM pid WHERE pid_type = $1 AND pid_value = $2`,
		pidType, pidValue).Scan(&id)
	if err != nil {
		return uuid.Nil, r.handlePostgresError("resolve_pid", err)
	}
	return id, nil
}
