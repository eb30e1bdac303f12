package repository

import (
	"bytes"
	"context"
	"sync"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

// MemoryStorage keeps values in process memory. A positive quota caps the
// total bytes held per namespace; writes over it fail with
// entity.ErrQuotaExceeded and leave the previous value in place.
type MemoryStorage struct {
	mu    sync.Mutex
	data  map[string]map[string][]byte
	quota int
}

func NewMemoryStorage(quota int) *MemoryStorage {
	return &MemoryStorage{
		data:  make(map[string]map[string][]byte),
		quota: quota,
	}
}

// SetQuota changes the per-namespace byte limit. Zero disables it.
func (m *MemoryStorage) SetQuota(quota int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.quota = quota
}

// Usage returns the bytes currently held by namespace.
func (m *MemoryStorage) Usage(namespace string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.usage(namespace)
}

func (m *MemoryStorage) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.data[namespace][key]
	if !ok {
		return nil, entity.ErrKeyNotFound
	}

	return bytes.Clone(value), nil
}

func (m *MemoryStorage) Put(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.put(namespace, key, value)
}

func (m *MemoryStorage) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data[namespace], key)

	return nil
}

func (m *MemoryStorage) Update(_ context.Context, namespace, key string, fn store.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, found := m.data[namespace][key]

	value, err := fn(bytes.Clone(current), found)
	if err != nil {
		return err
	}

	return m.put(namespace, key, value)
}

func (m *MemoryStorage) Clear(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, namespace)

	return nil
}

func (m *MemoryStorage) put(namespace, key string, value []byte) error {
	if m.quota > 0 {
		size := m.usage(namespace) - len(m.data[namespace][key]) + len(value)
		if size > m.quota {
			return entity.ErrQuotaExceeded
		}
	}

	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.data[namespace] = ns
	}

	ns[key] = bytes.Clone(value)

	return nil
}

func (m *MemoryStorage) usage(namespace string) int {
	var size int

	for _, value := range m.data[namespace] {
		size += len(value)
	}

	return size
}
