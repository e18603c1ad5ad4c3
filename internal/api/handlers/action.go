package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adaptivegym/lyingoracle/internal/parse"
)

type ActionHandler struct{}

func NewActionHandler() *ActionHandler {
	return &ActionHandler{}
}

type parseActionRequest struct {
	Text string `json:"text"`
}

// Parse extracts a query and trust mode from free-form model output.
// Unparseable text still yields an action; the defaults keep rollouts moving.
func (h *ActionHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, parse.ParseAction(req.Text))
}
