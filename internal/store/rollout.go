package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adaptivegym/lyingoracle/internal/domain"
)

const defaultListLimit = 100

type RolloutStore struct {
	db *pgxpool.Pool
}

func NewRolloutStore(db *pgxpool.Pool) *RolloutStore {
	return &RolloutStore{db: db}
}

func (s *RolloutStore) Create(ctx context.Context, r *domain.Rollout) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO rollouts (id, task, episode, status, turns, total_reward, final_mode, final_confidence, history, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID, r.Task, r.Episode, r.Status, r.Turns, r.TotalReward, r.FinalMode, r.FinalConfidence, r.History, r.CreatedAt,
	)
	return err
}

func (s *RolloutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rollout, error) {
	var r domain.Rollout
	err := s.db.QueryRow(ctx,
		`SELECT id, task, episode, status, turns, total_reward, final_mode, final_confidence, history, created_at
		 FROM rollouts WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Task, &r.Episode, &r.Status, &r.Turns, &r.TotalReward, &r.FinalMode, &r.FinalConfidence, &r.History, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *RolloutStore) List(ctx context.Context, filter domain.RolloutFilter) ([]domain.Rollout, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, task, episode, status, turns, total_reward, final_mode, final_confidence, history, created_at
		 FROM rollouts
		 ORDER BY created_at DESC LIMIT $1`
	args := []any{limit}
	if filter.Task != "" {
		query = `SELECT id, task, episode, status, turns, total_reward, final_mode, final_confidence, history, created_at
		 FROM rollouts WHERE task = $1
		 ORDER BY created_at DESC LIMIT $2`
		args = []any{filter.Task, limit}
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rollouts []domain.Rollout
	for rows.Next() {
		var r domain.Rollout
		if err := rows.Scan(&r.ID, &r.Task, &r.Episode, &r.Status, &r.Turns, &r.TotalReward, &r.FinalMode, &r.FinalConfidence, &r.History, &r.CreatedAt); err != nil {
			return nil, err
		}
		rollouts = append(rollouts, r)
	}
	return rollouts, rows.Err()
}

func (s *RolloutStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM rollouts WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
