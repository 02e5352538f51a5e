package storage

import (
	"context"
	"sync"

	"github.com/cyderes/post-viewer/internal/models"
)

const defaultMemoryCapacity = 256

// MemoryStorage keeps the most recent refresh records in process memory
type MemoryStorage struct {
	mu       sync.RWMutex
	capacity int
	records  []models.RefreshRecord
}

// NewMemoryStorage creates a store retaining at most capacity records
func NewMemoryStorage(capacity int) *MemoryStorage {
	if capacity < 1 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStorage{capacity: capacity}
}

// RecordRefresh appends a record, evicting the oldest beyond capacity
func (m *MemoryStorage) RecordRefresh(ctx context.Context, record models.RefreshRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record)
	if over := len(m.records) - m.capacity; over > 0 {
		m.records = append([]models.RefreshRecord(nil), m.records[over:]...)
	}
	return nil
}

// RecentRefreshes returns up to limit records, newest first
func (m *MemoryStorage) RecentRefreshes(ctx context.Context, limit int) ([]models.RefreshRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.RefreshRecord, 0, min(limit, len(m.records)))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStorage) Close() error {
	return nil
}
