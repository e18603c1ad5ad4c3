package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adaptivegym/lyingoracle/internal/agent"
	"github.com/adaptivegym/lyingoracle/internal/domain"
)

// EpisodeRunner plays full episodes: it wires an adaptive search agent to an
// environment and loops until the number is found or the turn budget runs
// out. A runner is stateless across episodes and safe for concurrent Run
// calls.
type EpisodeRunner struct {
	rollouts domain.RolloutStore
	sink     domain.TransitionSink
	logger   *zap.Logger
}

func NewEpisodeRunner(logger *zap.Logger) *EpisodeRunner {
	return &EpisodeRunner{logger: logger}
}

// SetRolloutStore enables best-effort persistence of finished rollouts.
func (r *EpisodeRunner) SetRolloutStore(store domain.RolloutStore) {
	r.rollouts = store
}

// SetTransitionSink forwards the agent's mode transitions during Run.
func (r *EpisodeRunner) SetTransitionSink(sink domain.TransitionSink) {
	r.sink = sink
}

// Run plays one episode to termination and returns its rollout. The seed
// fully determines the trajectory: both the oracle and the agent draw from a
// single rand.Rand built from it. Cancellation is checked between turns; a
// canceled context returns ctx.Err with no rollout.
func (r *EpisodeRunner) Run(ctx context.Context, episode domain.Episode, seed int64) (*domain.Rollout, error) {
	rng := rand.New(rand.NewSource(seed))

	env, err := NewEnv(episode, rng)
	if err != nil {
		return nil, err
	}
	episode = env.Episode()

	ag, err := agent.NewAdaptiveSearchAgent(episode.Variant, rng, r.logger)
	if err != nil {
		return nil, err
	}
	if r.sink != nil {
		ag.SetTransitionSink(r.sink)
	}

	var (
		lastResponse *bool
		totalReward  float64
	)
	for !env.Done() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		turn := env.Turn()
		k, mode := ag.SelectAction(turn, lastResponse)
		result := env.Step(domain.Action{K: k, Mode: mode})
		ag.Observe(k, result.OracleResponse, result.Reward, result.ModeSwitched)

		totalReward += result.Reward
		response := result.OracleResponse
		lastResponse = &response
	}

	rollout := &domain.Rollout{
		ID:              uuid.New(),
		Task:            domain.TaskForVariant(episode.Variant),
		Episode:         episode,
		Status:          env.Status(),
		Turns:           env.Turn(),
		TotalReward:     totalReward,
		FinalMode:       ag.Mode(),
		FinalConfidence: ag.Confidence(),
		History:         ag.History(),
		CreatedAt:       time.Now().UTC(),
	}

	r.logger.Info("episode finished",
		zap.String("rollout_id", rollout.ID.String()),
		zap.String("task", rollout.Task),
		zap.String("status", string(rollout.Status)),
		zap.Int("hidden_number", episode.HiddenNumber),
		zap.Int("turns", rollout.Turns),
		zap.Float64("total_reward", rollout.TotalReward),
		zap.String("final_mode", string(rollout.FinalMode)))

	if r.rollouts != nil {
		if err := r.rollouts.Create(ctx, rollout); err != nil {
			r.logger.Warn("failed to persist rollout",
				zap.String("rollout_id", rollout.ID.String()),
				zap.Error(err))
		}
	}

	return rollout, nil
}
