// Package storage holds the object storage abstraction used for record
// attachments. Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size is the exact number of bytes when known, -1 otherwise.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
}

// Storage is an S3-compatible object store.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that needs no credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// AttachmentKey builds the object key of an attachment from its record, its
// ID and the extension of the uploaded file name.
func AttachmentKey(recordID, attachmentID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("records/%s/%s%s", recordID, attachmentID, ext)
}
