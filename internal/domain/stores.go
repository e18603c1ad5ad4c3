package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RolloutFilter narrows List results.
type RolloutFilter struct {
	Task  string
	Limit int
}

// RolloutStore persists completed episode rollouts.
type RolloutStore interface {
	Create(ctx context.Context, r *Rollout) error
	GetByID(ctx context.Context, id uuid.UUID) (*Rollout, error)
	List(ctx context.Context, filter RolloutFilter) ([]Rollout, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
