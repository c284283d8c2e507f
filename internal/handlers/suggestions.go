package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/addyhq/addy-backend/internal/services"
)

type SuggestionHandler struct {
	service services.SuggestionService
}

func NewSuggestionHandler(service services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// HandleSuggestions handles GET /api/suggestions.
func (h *SuggestionHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
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

	suggestions, err := h.service.GetSuggestedActions(r.Context(), octx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(suggestions)
}
