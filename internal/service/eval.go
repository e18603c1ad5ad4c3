package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/adaptivegym/lyingoracle/internal/dataset"
	"github.com/adaptivegym/lyingoracle/internal/domain"
)

var ErrNoEpisodesSucceeded = errors.New("no episodes completed")

const (
	DefaultEvalConcurrency = 4
	MaxEvalConcurrency     = 32
)

// EvalParams configures one evaluation batch. Zero values fall back to the
// variant defaults, mirroring single-episode runs.
type EvalParams struct {
	Variant          domain.Variant `json:"variant"`
	NumEpisodes      int            `json:"num_episodes"`
	Seed             int64          `json:"seed"`
	MaxTurns         int            `json:"max_turns,omitempty"`
	SwitchTurn       int            `json:"switch_turn,omitempty"`
	LyingProbability float64        `json:"lying_probability,omitempty"`
	Concurrency      int            `json:"concurrency,omitempty"`
}

// EpisodeResult is the per-episode line of an evaluation report.
type EpisodeResult struct {
	EpisodeID   int                  `json:"episode_id"`
	Status      domain.EpisodeStatus `json:"status"`
	Turns       int                  `json:"turns"`
	TotalReward float64              `json:"total_reward"`
	FinalMode   domain.TrustMode     `json:"final_mode"`
}

// EvalReport aggregates a batch of episodes.
type EvalReport struct {
	Variant     domain.Variant  `json:"variant"`
	NumEpisodes int             `json:"num_episodes"`
	Seed        int64           `json:"seed"`
	SuccessRate float64         `json:"success_rate"`
	AvgTurns    float64         `json:"avg_turns"`
	AvgReward   float64         `json:"avg_reward"`
	Episodes    []EpisodeResult `json:"episodes"`
}

// EvalService runs evaluation batches over generated episodes.
type EvalService struct {
	runner *EpisodeRunner
	logger *zap.Logger
}

func NewEvalService(runner *EpisodeRunner, logger *zap.Logger) *EvalService {
	return &EvalService{runner: runner, logger: logger}
}

// Evaluate generates params.NumEpisodes episodes and plays each one on a
// bounded worker pool. Episode i is seeded with params.Seed+i+1, so a report
// is reproducible from (variant, num_episodes, seed) alone. Results keep
// generation order regardless of completion order.
func (s *EvalService) Evaluate(ctx context.Context, params EvalParams) (*EvalReport, error) {
	examples, err := dataset.Generate(params.NumEpisodes, params.Variant, params.SwitchTurn, params.Seed)
	if err != nil {
		return nil, err
	}

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultEvalConcurrency
	}
	if concurrency > MaxEvalConcurrency {
		concurrency = MaxEvalConcurrency
	}

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, concurrency)
		rollouts = make([]*domain.Rollout, len(examples))
	)
	for i, ex := range examples {
		wg.Add(1)
		go func(i int, ex domain.Example) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			episode := dataset.Episode(params.Variant, ex, params.MaxTurns, params.LyingProbability)
			rollout, err := s.runner.Run(ctx, episode, params.Seed+int64(i)+1)
			if err != nil {
				s.logger.Warn("episode failed during evaluation",
					zap.Int("episode_id", i),
					zap.Error(err))
				return
			}
			rollouts[i] = rollout
		}(i, ex)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &EvalReport{
		Variant:     params.Variant,
		NumEpisodes: params.NumEpisodes,
		Seed:        params.Seed,
		Episodes:    make([]EpisodeResult, 0, len(rollouts)),
	}

	var found, turns int
	var reward float64
	for i, rollout := range rollouts {
		if rollout == nil {
			continue
		}
		report.Episodes = append(report.Episodes, EpisodeResult{
			EpisodeID:   i,
			Status:      rollout.Status,
			Turns:       rollout.Turns,
			TotalReward: rollout.TotalReward,
			FinalMode:   rollout.FinalMode,
		})
		if rollout.Status == domain.StatusFound {
			found++
		}
		turns += rollout.Turns
		reward += rollout.TotalReward
	}

	n := len(report.Episodes)
	if n == 0 {
		return nil, ErrNoEpisodesSucceeded
	}
	report.SuccessRate = float64(found) / float64(n)
	report.AvgTurns = float64(turns) / float64(n)
	report.AvgReward = reward / float64(n)

	s.logger.Info("evaluation batch finished",
		zap.String("variant", string(params.Variant)),
		zap.Int("num_episodes", n),
		zap.Float64("success_rate", report.SuccessRate),
		zap.Float64("avg_turns", report.AvgTurns),
		zap.Float64("avg_reward", report.AvgReward))

	return report, nil
}
