package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Memory keeps objects in process memory
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.BlobStore = &Memory{}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = slices.Clone(data)
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "object not found", goerr.V("key", key))
	}
	return slices.Clone(data), nil
}

func (m *Memory) Close() error {
	return nil
}
