package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/services"
)

// IntakeHandler receives recognizer output from the upstream AI service and
// turns it into pending actions.
type IntakeHandler struct {
	proposer services.ProposerService
}

func NewIntakeHandler(proposer services.ProposerService) *IntakeHandler {
	return &IntakeHandler{proposer: proposer}
}

// HandleIntent handles POST /api/intake/intent. A "none" intent is
// acknowledged with 204 and creates nothing.
func (h *IntakeHandler) HandleIntent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	octx, err := operationContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var intent models.IntentResult
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.proposer.ProposeFromIntent(r.Context(), octx, &intent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// HandleDocument handles POST /api/intake/document.
func (h *IntakeHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	octx, err := operationContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var extraction models.DocumentExtraction
	if err := json.NewDecoder(r.Body).Decode(&extraction); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.proposer.ProposeFromDocument(r.Context(), octx, &extraction)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}
