package blob

import (
	"context"
	"sync"
)

// Memory keeps objects in-process. It backs tests and local runs where
// no S3 endpoint is configured.
type Memory struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemory(baseURL string) *Memory {
	return &Memory{BaseURL: baseURL, objects: make(map[string][]byte)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return m.BaseURL + "/" + key, nil
}

// Get returns a stored object; tests use it to verify uploads.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
