package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adaptivegym/lyingoracle/internal/dataset"
	"github.com/adaptivegym/lyingoracle/internal/service"
)

type EvalHandler struct {
	svc *service.EvalService
}

func NewEvalHandler(svc *service.EvalService) *EvalHandler {
	return &EvalHandler{svc: svc}
}

func (h *EvalHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var params service.EvalParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.svc.Evaluate(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrInvalidCount), errors.Is(err, dataset.ErrInvalidVariant):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, "evaluation canceled")
		case errors.Is(err, service.ErrNoEpisodesSucceeded):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to run evaluation")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}
