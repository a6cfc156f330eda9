package store

import (
	"context"

	"github.com/surgelabs/surge/internal/domain"
)

// RunStore persists run summaries. Swap in any adapter.
type RunStore interface {
	Save(ctx context.Context, r *domain.Run) error
	Recent(ctx context.Context, limit int) ([]domain.Run, error)
}
