package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adaptivegym/lyingoracle/internal/dataset"
	"github.com/adaptivegym/lyingoracle/internal/domain"
)

type DatasetHandler struct{}

func NewDatasetHandler() *DatasetHandler {
	return &DatasetHandler{}
}

type generateDatasetRequest struct {
	Variant    string `json:"variant"`
	Count      int    `json:"count"`
	SwitchTurn int    `json:"switch_turn,omitempty"`
	Seed       int64  `json:"seed"`
}

func (h *DatasetHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	examples, err := dataset.Generate(req.Count, domain.Variant(req.Variant), req.SwitchTurn, req.Seed)
	if err != nil {
		switch {
		case errors.Is(err, dataset.ErrInvalidCount), errors.Is(err, dataset.ErrInvalidVariant):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to generate dataset")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(examples),
		"examples": examples,
	})
}
