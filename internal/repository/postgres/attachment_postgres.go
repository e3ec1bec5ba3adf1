package postgres

import (
	"context"
	"database/sql"

	"gradia/internal/model"
	"gradia/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

func scanAttachment(s rowScanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.Scan(
		&a.ID,
		&a.RecordID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts attachment metadata.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO record_attachments (id, record_id, filename, storage_path, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, record_id, filename, storage_path, size, content_type, created_at
	`
	out, err := scanAttachment(conn(ctx, r.db).QueryRowContext(ctx, q,
		a.ID,
		a.RecordID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches an attachment of the given record.
func (r *AttachmentPostgres) FindByID(ctx context.Context, recordID, id string) (*model.Attachment, error) {
	const q = `
		SELECT id, record_id, filename, storage_path, size, content_type, created_at
		FROM record_attachments
		WHERE id = $1 AND record_id = $2
	`
	return scanAttachment(conn(ctx, r.db).QueryRowContext(ctx, q, id, recordID))
}

// ListByRecord returns a record's attachments, newest first.
func (r *AttachmentPostgres) ListByRecord(ctx context.Context, recordID string) ([]model.Attachment, error) {
	const q = `
		SELECT id, record_id, filename, storage_path, size, content_type, created_at
		FROM record_attachments
		WHERE record_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes attachment metadata. A missing row is not an error.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM record_attachments WHERE id = $1`
	_, err := conn(ctx, r.db).ExecContext(ctx, q, id)
	return err
}
