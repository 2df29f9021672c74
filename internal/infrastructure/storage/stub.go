package storage

import (
	"context"
	"errors"
	"io"
	"sync"

	appsubmission "github.com/creatorhub/backend/internal/application/submission"
)

// StubObjectStorage is an in-memory implementation of ObjectStorage for
// development and tests. Blobs live in a map and are lost on restart.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated object URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements ObjectStorage
var _ appsubmission.ObjectStorage = (*StubObjectStorage)(nil)

// Store reads the blob into memory and returns its URL
func (s *StubObjectStorage) Store(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return s.PublicURL(key), nil
}

// Delete removes a blob from memory. Deleting a missing key is a no-op.
func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()

	return nil
}

// PublicURL returns the URL a stored key would be served under
func (s *StubObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// Get returns a stored blob. Test helper.
func (s *StubObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored blobs. Test helper.
func (s *StubObjectStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
