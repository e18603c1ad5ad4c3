package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adaptivegym/lyingoracle/internal/domain"
	"github.com/adaptivegym/lyingoracle/internal/store"
)

type RolloutHandler struct {
	rollouts domain.RolloutStore
}

func NewRolloutHandler(rollouts domain.RolloutStore) *RolloutHandler {
	return &RolloutHandler{rollouts: rollouts}
}

func (h *RolloutHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.rollouts == nil {
		writeError(w, http.StatusServiceUnavailable, "rollout persistence is disabled")
		return
	}

	filter := domain.RolloutFilter{Task: r.URL.Query().Get("task")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	rollouts, err := h.rollouts.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rollouts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(rollouts),
		"rollouts": rollouts,
	})
}

func (h *RolloutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if h.rollouts == nil {
		writeError(w, http.StatusServiceUnavailable, "rollout persistence is disabled")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rollout id")
		return
	}

	rollout, err := h.rollouts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "rollout not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get rollout")
		return
	}

	writeJSON(w, http.StatusOK, rollout)
}
