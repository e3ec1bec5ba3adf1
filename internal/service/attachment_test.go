package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gradia/internal/model"
	repoMocks "gradia/internal/repository/mocks"
	"gradia/internal/storage"
	storeMocks "gradia/internal/storage/mocks"
)

const testExpiry = 15 * time.Minute

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		filename   string
		setupMocks func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader
		wantErr    error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			filename: "../receipt.PDF",
			setupMocks: func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader {
				r := strings.NewReader("%PDF")
				mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
				mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "records/r1/") && strings.HasSuffix(key, ".pdf")
				}), r, storage.PutObjectOptions{
					Size:        4,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "receipt.PDF"},
				}).Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
					return storage.ObjectInfo{Key: key, Size: 4, ContentType: "application/pdf"}
				}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Attachment) bool {
					return a.RecordID == "r1" && a.Filename == "receipt.PDF" && strings.HasPrefix(a.StoragePath, "records/r1/")
				})).Return(&model.Attachment{ID: "a1", RecordID: "r1", StoragePath: "records/r1/a1.pdf"}, nil)
				mStore.On("PresignGet", ctx, "records/r1/a1.pdf", testExpiry).Return("https://minio/records/r1/a1.pdf?sig", nil)
				return r
			},
		},
		{
			name:     "nil reader",
			filename: "a.txt",
			setupMocks: func(*storeMocks.MockStorage, *repoMocks.MockRecordRepository, *repoMocks.MockAttachmentRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:     "record of another user",
			filename: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader {
				mRecords.On("FindByID", ctx, "u1", "r1").Return(nil, sql.ErrNoRows)
				return strings.NewReader("x")
			},
			wantErr: ErrRecordNotFound,
		},
		{
			name:     "storage error",
			filename: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader {
				r := strings.NewReader("x")
				mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))
				return r
			},
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:     "repository error rolls back the object",
			filename: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader {
				r := strings.NewReader("x")
				mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "records/r1/") })).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:     "repository error with failed rollback",
			filename: "a.txt",
			setupMocks: func(mStore *storeMocks.MockStorage, mRecords *repoMocks.MockRecordRepository, mRepo *repoMocks.MockAttachmentRepository) io.Reader {
				r := strings.NewReader("x")
				mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
				mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRecords := new(repoMocks.MockRecordRepository)
			mRepo := new(repoMocks.MockAttachmentRepository)
			svc := NewAttachmentService(mStore, mRecords, mRepo, testExpiry)

			r := tt.setupMocks(mStore, mRecords, mRepo)
			contentType := "text/plain"
			size := int64(1)
			if tt.name == "happy path" {
				contentType, size = "application/pdf", 4
			}

			v, err := svc.Upload(ctx, "u1", "r1", UploadInput{Reader: r, Filename: tt.filename, ContentType: contentType, Size: size})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "https://minio/records/r1/a1.pdf?sig", v.URL)
			}
			mStore.AssertExpectations(t)
			mRecords.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAttachmentService_List(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRecords := new(repoMocks.MockRecordRepository)
	mRepo := new(repoMocks.MockAttachmentRepository)
	mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
	mRepo.On("ListByRecord", ctx, "r1").Return([]model.Attachment{
		{ID: "a2", StoragePath: "records/r1/a2.png"},
		{ID: "a1", StoragePath: "records/r1/a1.pdf"},
	}, nil)
	mStore.On("PresignGet", ctx, "records/r1/a2.png", testExpiry).Return("url2", nil)
	mStore.On("PresignGet", ctx, "records/r1/a1.pdf", testExpiry).Return("url1", nil)
	svc := NewAttachmentService(mStore, mRecords, mRepo, testExpiry)

	out, err := svc.List(ctx, "u1", "r1")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a2", out[0].ID)
	assert.Equal(t, "url2", out[0].URL)
	assert.Equal(t, "url1", out[1].URL)
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("object then row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRecords := new(repoMocks.MockRecordRepository)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
		mRepo.On("FindByID", ctx, "r1", "a1").Return(&model.Attachment{ID: "a1", StoragePath: "records/r1/a1.pdf"}, nil)
		mStore.On("Delete", ctx, "records/r1/a1.pdf").Return(nil)
		mRepo.On("Delete", ctx, "a1").Return(nil)
		svc := NewAttachmentService(mStore, mRecords, mRepo, testExpiry)

		require.NoError(t, svc.Delete(ctx, "u1", "r1", "a1"))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("storage failure keeps the row", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRecords := new(repoMocks.MockRecordRepository)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
		mRepo.On("FindByID", ctx, "r1", "a1").Return(&model.Attachment{ID: "a1", StoragePath: "k"}, nil)
		mStore.On("Delete", ctx, "k").Return(errors.New("unreachable"))
		svc := NewAttachmentService(mStore, mRecords, mRepo, testExpiry)

		err := svc.Delete(ctx, "u1", "r1", "a1")

		assert.ErrorContains(t, err, "delete storage: unreachable")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown attachment", func(t *testing.T) {
		mRecords := new(repoMocks.MockRecordRepository)
		mRepo := new(repoMocks.MockAttachmentRepository)
		mRecords.On("FindByID", ctx, "u1", "r1").Return(&model.FinancialRecord{ID: "r1"}, nil)
		mRepo.On("FindByID", ctx, "r1", "a9").Return(nil, sql.ErrNoRows)
		svc := NewAttachmentService(new(storeMocks.MockStorage), mRecords, mRepo, testExpiry)

		assert.ErrorIs(t, svc.Delete(ctx, "u1", "r1", "a9"), ErrAttachmentNotFound)
	})
}

func TestAttachmentService_DeleteAll(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockAttachmentRepository)
	mRepo.On("ListByRecord", ctx, "r1").Return([]model.Attachment{{ID: "a1", StoragePath: "k1"}, {ID: "a2", StoragePath: "k2"}}, nil)
	mStore.On("Delete", ctx, "k1").Return(nil)
	mStore.On("Delete", ctx, "k2").Return(nil)
	mRepo.On("Delete", ctx, "a1").Return(nil)
	mRepo.On("Delete", ctx, "a2").Return(nil)
	svc := NewAttachmentService(mStore, new(repoMocks.MockRecordRepository), mRepo, testExpiry)

	require.NoError(t, svc.DeleteAll(ctx, "r1"))
	mStore.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}
