package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"gradia/internal/config"
)

func TestAttachmentKey(t *testing.T) {
	assert.Equal(t, "records/r1/a1.pdf", AttachmentKey("r1", "a1", "Receipt.PDF"))
	assert.Equal(t, "records/r1/a1", AttachmentKey("r1", "a1", "noext"))
	assert.Equal(t, "records/r1/a1.png", AttachmentKey("r1", "a1", "dir/img.png"))
}

func TestNewMinIO_Validation(t *testing.T) {
	full := config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "b"}

	tests := []struct {
		name   string
		mutate func(c *config.MinIOConfig)
		msg    string
	}{
		{"endpoint", func(c *config.MinIOConfig) { c.Endpoint = "" }, "minio endpoint is required"},
		{"access key", func(c *config.MinIOConfig) { c.AccessKey = "" }, "minio credentials are required"},
		{"secret key", func(c *config.MinIOConfig) { c.SecretKey = "" }, "minio credentials are required"},
		{"bucket", func(c *config.MinIOConfig) { c.Bucket = "" }, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)

			s, err := NewMinIO(context.Background(), cfg)

			assert.EqualError(t, err, tt.msg)
			assert.Nil(t, s)
		})
	}

	assert.NoError(t, Validate(full))
}
