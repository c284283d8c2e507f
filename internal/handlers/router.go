package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route. Integration tests mount the same router
// against a test database.
func NewRouter(actions *ActionHandler, suggestions *SuggestionHandler, intake *IntakeHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "addy-backend",
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/actions", actions.HandleActions).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/actions/{id}", actions.HandleAction).Methods(http.MethodGet)
	r.HandleFunc("/api/actions/{id}/confirm", actions.HandleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/{id}/execute", actions.HandleExecute).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/{id}/reject", actions.HandleReject).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/{id}/cancel", actions.HandleCancel).Methods(http.MethodPost)
	r.HandleFunc("/api/actions/{id}/rate", actions.HandleRate).Methods(http.MethodPost)

	r.HandleFunc("/api/suggestions", suggestions.HandleSuggestions).Methods(http.MethodGet)

	r.HandleFunc("/api/intake/intent", intake.HandleIntent).Methods(http.MethodPost)
	r.HandleFunc("/api/intake/document", intake.HandleDocument).Methods(http.MethodPost)

	return r
}
