package blob

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process blob store used by tests and local development.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte // key: bucket/path
	baseURL string
}

// NewMemory creates an empty in-memory blob store.
func NewMemory(baseURL string) *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (m *Memory) key(bucket, path string) string {
	return bucket + "/" + path
}

// Put stores the object bytes, overwriting any previous content.
func (m *Memory) Put(_ context.Context, obj Object) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	m.objects[m.key(obj.Bucket, obj.Path)] = data
	return m.URL(obj.Bucket, obj.Path), nil
}

// Remove deletes the listed paths; missing paths are ignored.
func (m *Memory) Remove(_ context.Context, bucket string, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range paths {
		delete(m.objects, m.key(bucket, path))
	}
	return nil
}

// URL composes the public URL for an object.
func (m *Memory) URL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", m.baseURL, bucket, path)
}

// Get returns the stored bytes for a path, if present.
func (m *Memory) Get(bucket, path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[m.key(bucket, path)]
	return data, ok
}

// Len reports the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
