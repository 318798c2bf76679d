package history

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/herbscan/internal/client/models"
)

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	scans []models.Scan
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Insert(ctx context.Context, s models.Scan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans = append(m.scans, s)
	return nil
}

func (m *MemoryStore) Page(ctx context.Context, offset, limit int) ([]models.Scan, error) {
	m.mu.Lock()
	sorted := slices.Clone(m.scans)
	m.mu.Unlock()

	slices.Reverse(sorted)
	slices.SortStableFunc(sorted, func(a, b models.Scan) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	end := min(offset+limit, len(sorted))
	return sorted[offset:end], nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scans = nil
	return nil
}
