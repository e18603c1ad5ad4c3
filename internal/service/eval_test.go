package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/adaptivegym/lyingoracle/internal/dataset"
	"github.com/adaptivegym/lyingoracle/internal/domain"
)

func TestEvalService_EasyBatch(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())

	report, err := svc.Evaluate(context.Background(), EvalParams{
		Variant:     domain.VariantEasy,
		NumEpisodes: 20,
		Seed:        42,
	})

	assert.NoError(t, err)
	assert.Len(t, report.Episodes, 20)
	// The default switch turn is 200, so every easy episode is effectively
	// truthful and binary search should always win.
	assert.Equal(t, 1.0, report.SuccessRate)
	assert.LessOrEqual(t, report.AvgTurns, 7.0)
	assert.Greater(t, report.AvgReward, 0.9)
}

func TestEvalService_HardBatch(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())

	report, err := svc.Evaluate(context.Background(), EvalParams{
		Variant:     domain.VariantHard,
		NumEpisodes: 10,
		Seed:        7,
		Concurrency: 2,
	})

	assert.NoError(t, err)
	assert.Len(t, report.Episodes, 10)
	for _, ep := range report.Episodes {
		assert.True(t, domain.ValidEpisodeStatus(string(ep.Status)))
		assert.Greater(t, ep.Turns, 0)
	}
}

func TestEvalService_SmallTurnBudgetKeepsEveryEpisode(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())

	// Hard episodes with an unset switch turn and a tight budget: every
	// episode must still run rather than fall out of the report.
	report, err := svc.Evaluate(context.Background(), EvalParams{
		Variant:     domain.VariantHard,
		NumEpisodes: 25,
		Seed:        13,
		MaxTurns:    100,
	})

	assert.NoError(t, err)
	assert.Len(t, report.Episodes, 25)
}

func TestEvalService_ResultsKeepGenerationOrder(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())

	report, err := svc.Evaluate(context.Background(), EvalParams{
		Variant:     domain.VariantEasy,
		NumEpisodes: 8,
		Seed:        3,
		Concurrency: 4,
	})

	assert.NoError(t, err)
	for i, ep := range report.Episodes {
		assert.Equal(t, i, ep.EpisodeID)
	}
}

func TestEvalService_Deterministic(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())
	params := EvalParams{Variant: domain.VariantHard, NumEpisodes: 6, Seed: 99}

	first, err := svc.Evaluate(context.Background(), params)
	assert.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), params)
	assert.NoError(t, err)

	assert.Equal(t, first.Episodes, second.Episodes)
	assert.Equal(t, first.SuccessRate, second.SuccessRate)
	assert.Equal(t, first.AvgReward, second.AvgReward)
}

func TestEvalService_InvalidParams(t *testing.T) {
	svc := NewEvalService(NewEpisodeRunner(zap.NewNop()), zap.NewNop())

	_, err := svc.Evaluate(context.Background(), EvalParams{
		Variant:     domain.VariantEasy,
		NumEpisodes: 0,
		Seed:        1,
	})
	assert.ErrorIs(t, err, dataset.ErrInvalidCount)

	_, err = svc.Evaluate(context.Background(), EvalParams{
		Variant:     "medium",
		NumEpisodes: 5,
		Seed:        1,
	})
	assert.ErrorIs(t, err, dataset.ErrInvalidVariant)
}
