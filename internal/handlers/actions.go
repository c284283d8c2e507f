package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/services"
)

type ActionHandler struct {
	proposer services.ProposerService
	executor services.ExecutorService
}

func NewActionHandler(proposer services.ProposerService, executor services.ExecutorService) *ActionHandler {
	return &ActionHandler{proposer: proposer, executor: executor}
}

// HandleActions handles collection-level operations for actions.
func (h *ActionHandler) HandleActions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodPost:
		h.propose(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleAction handles GET /api/actions/{id}.
func (h *ActionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	octx, err := operationContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.executor.Get(r.Context(), octx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(a)
}

// HandleConfirm handles POST /api/actions/{id}/confirm.
func (h *ActionHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.executor.Confirm)
}

// HandleExecute handles POST /api/actions/{id}/execute.
func (h *ActionHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.executor.Execute)
}

// HandleReject handles POST /api/actions/{id}/reject.
func (h *ActionHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.executor.Reject)
}

// HandleCancel handles POST /api/actions/{id}/cancel.
func (h *ActionHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.close(w, r, h.executor.Cancel)
}

// HandleRate handles POST /api/actions/{id}/rate.
func (h *ActionHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
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

	var payload struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	a, err := h.executor.Rate(r.Context(), octx, mux.Vars(r)["id"], payload.Rating)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(a)
}

func (h *ActionHandler) propose(w http.ResponseWriter, r *http.Request) {
	octx, err := operationContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var payload struct {
		ActionType string                 `json:"action_type"`
		Payload    map[string]interface{} `json:"payload"`
		Source     string                 `json:"source"`
		SourceRef  *string                `json:"source_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Source == "" {
		payload.Source = models.SourceChat
	}

	a, err := h.proposer.Propose(r.Context(), octx, payload.ActionType, payload.Payload, payload.Source, payload.SourceRef)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ActionHandler) list(w http.ResponseWriter, r *http.Request) {
	octx, err := operationContext(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	status := q.Get("status")
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := h.executor.List(r.Context(), octx, status, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(list)
}

func (h *ActionHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error)) {
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

	a, err := op(r.Context(), octx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(a)
}

func (h *ActionHandler) close(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, octx models.OperationContext, id, reason string) (*models.Action, error)) {
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

	var payload struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	a, err := op(r.Context(), octx, mux.Vars(r)["id"], payload.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(a)
}
