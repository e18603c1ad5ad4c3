package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"

	"github.com/adaptivegym/lyingoracle/internal/domain"
	"github.com/adaptivegym/lyingoracle/internal/service"
)

type EpisodeHandler struct {
	runner *service.EpisodeRunner
}

func NewEpisodeHandler(runner *service.EpisodeRunner) *EpisodeHandler {
	return &EpisodeHandler{runner: runner}
}

type runEpisodeRequest struct {
	Variant          string  `json:"variant"`
	HiddenNumber     int     `json:"hidden_number"`
	SwitchTurn       int     `json:"switch_turn,omitempty"`
	MaxTurns         int     `json:"max_turns,omitempty"`
	LyingProbability float64 `json:"lying_probability,omitempty"`
	Seed             *int64  `json:"seed,omitempty"`
}

// Run plays one episode to termination and returns its rollout. Omitting the
// seed draws a fresh one; the response echoes whichever seed was used so any
// rollout can be replayed.
func (h *EpisodeHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seed := rand.Int63()
	if req.Seed != nil {
		seed = *req.Seed
	}

	rollout, err := h.runner.Run(r.Context(), domain.Episode{
		Variant:          domain.Variant(req.Variant),
		HiddenNumber:     req.HiddenNumber,
		SwitchTurn:       req.SwitchTurn,
		MaxTurns:         req.MaxTurns,
		LyingProbability: req.LyingProbability,
	}, seed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidVariant),
			errors.Is(err, service.ErrHiddenOutOfRange),
			errors.Is(err, service.ErrMaxTurnsInvalid),
			errors.Is(err, service.ErrSwitchTurnOutOfRange),
			errors.Is(err, service.ErrLyingProbabilityRange):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "episode canceled")
		default:
			writeError(w, http.StatusInternalServerError, "failed to run episode")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"seed":    seed,
		"rollout": rollout,
	})
}
