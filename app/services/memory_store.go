package services

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore store in-memory, dữ liệu mất khi tắt process
type MemoryStore struct {
	data map[string][]byte
	mu   sync.RWMutex

	reads  atomic.Int64
	writes atomic.Int64
	misses atomic.Int64
}

// NewMemoryStore tạo mới MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get lấy bản sao blob
func (ms *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ms.reads.Add(1)
	data, exists := ms.data[key]
	if !exists {
		ms.misses.Add(1)
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set lưu bản sao blob
func (ms *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.writes.Add(1)
	ms.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete xóa key
func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.data, key)
	return nil
}

// Stats thống kê truy cập
func (ms *MemoryStore) Stats() StoreStats {
	return StoreStats{
		Backend: "memory",
		Reads:   ms.reads.Load(),
		Writes:  ms.writes.Load(),
		Misses:  ms.misses.Load(),
	}
}

// Close không cần thiết cho in-memory store
func (ms *MemoryStore) Close() error {
	return nil
}
