package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jobledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func minioConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:           true,
		Endpoint:          "http://localhost:9000",
		Region:            "eu-central-1",
		Bucket:            "receipts",
		AccessKeyID:       "test-key",
		SecretAccessKey:   "test-secret",
		UsePathStyle:      true,
		UploadURLExpiry:   10 * time.Minute,
		DownloadURLExpiry: 30 * time.Minute,
	}
}

func TestNewS3ReceiptStorage_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"half credentials", func(c *config.StorageConfig) { c.SecretAccessKey = "" }, "must be set together"},
		{"endpoint without scheme", func(c *config.StorageConfig) { c.Endpoint = "localhost:9000" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minioConfig()
			tt.mutate(cfg)
			_, err := NewS3ReceiptStorage(ctx, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ReceiptStorage(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := minioConfig()
		cfg.Region = ""
		cfg.UploadURLExpiry = 0
		cfg.DownloadURLExpiry = 0
		s, err := NewS3ReceiptStorage(ctx, cfg, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "receipts", s.Bucket())
		assert.Equal(t, defaultUploadExpiry, s.uploadExpiry)
		assert.Equal(t, defaultDownloadExpiry, s.downloadExpiry)
	})
}

func TestS3ReceiptStorage_Presign(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ReceiptStorage(ctx, minioConfig())
	require.NoError(t, err)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	key := "owners/7f1c/expenses/2b9d/receipt.pdf"

	t.Run("upload", func(t *testing.T) {
		raw, expiresAt, err := s.GenerateUploadURL(ctx, key, "application/pdf", 0)
		require.NoError(t, err)
		assert.Equal(t, now.Add(10*time.Minute), expiresAt)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.Equal(t, "/receipts/"+key, u.Path)
		assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
		assert.True(t, strings.Contains(u.Query().Get("X-Amz-Credential"), "eu-central-1"))
	})

	t.Run("download with explicit expiry", func(t *testing.T) {
		raw, expiresAt, err := s.GenerateDownloadURL(ctx, key, 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, now.Add(5*time.Minute), expiresAt)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/png", 0)
		assert.Error(t, err)
		_, _, err = s.GenerateDownloadURL(ctx, "", 0)
		assert.Error(t, err)
	})
}

func TestStubReceiptStorage(t *testing.T) {
	s := NewStubReceiptStorage()

	raw, expiresAt, err := s.GenerateUploadURL(context.Background(), "owners/a/receipt.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "https://storage.example.com/upload/owners/a/receipt.png?expires="))
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)

	raw, _, err = s.GenerateDownloadURL(context.Background(), "owners/a/receipt.png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, raw, "/download/owners/a/receipt.png")

	_, _, err = s.GenerateUploadURL(context.Background(), "", "image/png", time.Minute)
	assert.Error(t, err)
}
