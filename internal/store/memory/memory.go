package memory

import (
	"context"
	"sync"

	"github.com/surgelabs/surge/internal/domain"
)

// Store keeps run summaries in memory, newest last.
type Store struct {
	mu   sync.RWMutex
	runs []*domain.Run
	next uint
}

func New() *Store {
	return &Store{runs: make([]*domain.Run, 0, 16), next: 1}
}

func (m *Store) Save(ctx context.Context, r *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.next
		m.next++
	}
	m.runs = append(m.runs, r)
	return nil
}

// Recent returns up to limit runs, newest first.
func (m *Store) Recent(ctx context.Context, limit int) ([]domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	out := make([]domain.Run, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.runs[i])
	}
	return out, nil
}
