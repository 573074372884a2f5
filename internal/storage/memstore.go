package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemStore keeps objects in memory. It backs tests and local development
// where no MinIO instance is running.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUpload and FailRemove force the corresponding call to error.
	FailUpload bool
	FailRemove bool
}

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (s *MemStore) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if s.FailUpload {
		return fmt.Errorf("uploading object %q: forced failure", name)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading object %q: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return nil
}

func (s *MemStore) Remove(ctx context.Context, name string) error {
	if s.FailRemove {
		return fmt.Errorf("removing object %q: forced failure", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

func (s *MemStore) PublicURL(name string) string {
	return "https://storage.local/prompt-images/" + name
}

// Has reports whether an object is present.
func (s *MemStore) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[name]
	return ok
}

// Len returns the number of stored objects.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
