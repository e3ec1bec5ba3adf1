package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"gradia/internal/model"
	"gradia/internal/repository"
	"gradia/internal/storage"
)

// UploadInput describes a file attached to a record.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// AttachmentService stores files for financial records in object storage.
type AttachmentService interface {
	// Upload stores the content, then its metadata. The object is removed
	// again when the metadata cannot be saved.
	Upload(ctx context.Context, userID, recordID string, in UploadInput) (*AttachmentView, error)
	// List returns the record's attachments with pre-signed download URLs.
	List(ctx context.Context, userID, recordID string) ([]AttachmentView, error)
	// Delete removes the object first and keeps the row when that fails.
	Delete(ctx context.Context, userID, recordID, id string) error
	// DeleteAll removes every attachment of a record without ownership checks.
	DeleteAll(ctx context.Context, recordID string) error
}

type attachmentService struct {
	store       storage.Storage
	records     repository.RecordRepository
	attachments repository.AttachmentRepository
	expiry      time.Duration
}

// NewAttachmentService constructs an AttachmentService. expiry bounds the
// lifetime of download URLs.
func NewAttachmentService(store storage.Storage, records repository.RecordRepository, attachments repository.AttachmentRepository, expiry time.Duration) AttachmentService {
	return &attachmentService{store: store, records: records, attachments: attachments, expiry: expiry}
}

func (s *attachmentService) Upload(ctx context.Context, userID, recordID string, in UploadInput) (*AttachmentView, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if err := s.ownRecord(ctx, userID, recordID); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	filename := path.Base(in.Filename)
	key := storage.AttachmentKey(recordID, id, filename)

	obj, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.attachments.Create(ctx, &model.Attachment{
		ID:          id,
		RecordID:    recordID,
		Filename:    filename,
		StoragePath: obj.Key,
		Size:        obj.Size,
		ContentType: obj.ContentType,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return s.view(ctx, *stored)
}

func (s *attachmentService) List(ctx context.Context, userID, recordID string) ([]AttachmentView, error) {
	if err := s.ownRecord(ctx, userID, recordID); err != nil {
		return nil, err
	}
	items, err := s.attachments.ListByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	out := make([]AttachmentView, 0, len(items))
	for _, a := range items {
		v, err := s.view(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *attachmentService) Delete(ctx context.Context, userID, recordID, id string) error {
	if err := s.ownRecord(ctx, userID, recordID); err != nil {
		return err
	}
	a, err := s.attachments.FindByID(ctx, recordID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return s.remove(ctx, *a)
}

func (s *attachmentService) DeleteAll(ctx context.Context, recordID string) error {
	items, err := s.attachments.ListByRecord(ctx, recordID)
	if err != nil {
		return err
	}
	for _, a := range items {
		if err := s.remove(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *attachmentService) remove(ctx context.Context, a model.Attachment) error {
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.attachments.Delete(ctx, a.ID)
}

func (s *attachmentService) ownRecord(ctx context.Context, userID, recordID string) error {
	if _, err := s.records.FindByID(ctx, userID, recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *attachmentService) view(ctx context.Context, a model.Attachment) (*AttachmentView, error) {
	u, err := s.store.PresignGet(ctx, a.StoragePath, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign url: %w", err)
	}
	return &AttachmentView{Attachment: a, URL: u}, nil
}
