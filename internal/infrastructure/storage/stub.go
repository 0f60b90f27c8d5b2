package storage

import (
	"context"
	"errors"
	"net/url"
	"time"

	financeapp "github.com/jobledger/backend/internal/application/finance"
)

// StubReceiptStorage returns fake URLs without talking to any object store.
// Used in development when no bucket is configured.
type StubReceiptStorage struct {
	BaseURL string
}

// NewStubReceiptStorage creates a stub pointing at storage.example.com
func NewStubReceiptStorage() *StubReceiptStorage {
	return &StubReceiptStorage{BaseURL: "https://storage.example.com"}
}

var _ financeapp.ReceiptStorage = (*StubReceiptStorage)(nil)

// GenerateUploadURL returns a fake upload URL
func (s *StubReceiptStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("upload", storageKey, expiresIn)
}

// GenerateDownloadURL returns a fake download URL
func (s *StubReceiptStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.url("download", storageKey, expiresIn)
}

func (s *StubReceiptStorage) url(action, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{"expires": {expiresAt.UTC().Format(time.RFC3339)}}
	return s.BaseURL + "/" + action + "/" + storageKey + "?" + q.Encode(), expiresAt, nil
}
