package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/apperrors"
	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/services"
)

type mockProposer struct {
	proposed *models.Action
	err      error
}

func (m *mockProposer) Propose(_ context.Context, octx models.OperationContext, actionType string, payload map[string]interface{}, source string, sourceRef *string) (*models.Action, error) {
	if m.err != nil {
		return nil, m.err
	}
	a := &models.Action{
		ID:             "a1",
		OrganizationID: octx.OrganizationID,
		UserID:         octx.UserID,
		ActionType:     actionType,
		Status:         models.StatusPending,
		Source:         source,
		SourceRef:      sourceRef,
	}
	_ = a.SetPayload(payload)
	m.proposed = a
	return a, nil
}

func (m *mockProposer) ProposeFromIntent(ctx context.Context, octx models.OperationContext, intent *models.IntentResult) (*models.Action, error) {
	if intent == nil || intent.Kind == "none" {
		return nil, nil
	}
	return m.Propose(ctx, octx, intent.ActionType, intent.Payload, models.SourceChat, nil)
}

func (m *mockProposer) ProposeFromDocument(ctx context.Context, octx models.OperationContext, extraction *models.DocumentExtraction) (*models.Action, error) {
	if extraction == nil {
		return nil, &apperrors.ErrValidation{Field: "extraction", Message: "required"}
	}
	return m.Propose(ctx, octx, extraction.ActionType, extraction.Fields, models.SourceDocument, nil)
}

type mockExecutor struct {
	actions map[string]*models.Action
	err     error
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{actions: map[string]*models.Action{}}
}

func (m *mockExecutor) lookup(id string) (*models.Action, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.actions[id]
	if !ok {
		return nil, fmt.Errorf("action not found: %s: %w", id, gorm.ErrRecordNotFound)
	}
	return a, nil
}

func (m *mockExecutor) Get(_ context.Context, _ models.OperationContext, id string) (*models.Action, error) {
	return m.lookup(id)
}

func (m *mockExecutor) List(_ context.Context, _ models.OperationContext, status string, limit, offset int) ([]*models.Action, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Action
	for _, a := range m.actions {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockExecutor) Confirm(_ context.Context, _ models.OperationContext, id string) (*models.Action, error) {
	a, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusConfirmed
	return a, nil
}

func (m *mockExecutor) Execute(_ context.Context, _ models.OperationContext, id string) (*models.Action, error) {
	a, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusExecuted
	return a, nil
}

func (m *mockExecutor) Reject(_ context.Context, _ models.OperationContext, id, reason string) (*models.Action, error) {
	a, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusRejected
	if reason != "" {
		a.Reason = &reason
	}
	return a, nil
}

func (m *mockExecutor) Cancel(_ context.Context, _ models.OperationContext, id, reason string) (*models.Action, error) {
	a, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	a.Status = models.StatusCancelled
	return a, nil
}

func (m *mockExecutor) Rate(_ context.Context, _ models.OperationContext, id string, rating int) (*models.Action, error) {
	if rating < 1 || rating > 5 {
		return nil, &apperrors.ErrValidation{Field: "rating", Message: "must be between 1 and 5"}
	}
	a, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	a.UserRating = &rating
	return a, nil
}

type mockSuggester struct {
	out []*models.Suggestion
	err error
}

func (m *mockSuggester) GetSuggestedActions(_ context.Context, _ models.OperationContext) ([]*models.Suggestion, error) {
	return m.out, m.err
}

var (
	_ services.ProposerService   = (*mockProposer)(nil)
	_ services.ExecutorService   = (*mockExecutor)(nil)
	_ services.SuggestionService = (*mockSuggester)(nil)
)

func newTestRouter(proposer *mockProposer, executor *mockExecutor, suggester *mockSuggester) http.Handler {
	return NewRouter(
		NewActionHandler(proposer, executor),
		NewSuggestionHandler(suggester),
		NewIntakeHandler(proposer),
	)
}

func authedRequest(method, target string, body []byte) *http.Request {
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set(headerOrgID, "org1")
	r.Header.Set(headerUserID, "u1")
	return r
}

func TestProposeAction(t *testing.T) {
	proposer := &mockProposer{}
	router := newTestRouter(proposer, newMockExecutor(), &mockSuggester{})

	body, _ := json.Marshal(map[string]interface{}{
		"action_type": models.ActionRecordExpense,
		"payload":     map[string]interface{}{"amount": 12.5, "description": "coffee"},
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var got models.Action
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ActionType != models.ActionRecordExpense || got.Status != models.StatusPending {
		t.Fatalf("unexpected action: %+v", got)
	}
	if proposer.proposed.Source != models.SourceChat {
		t.Fatalf("expected chat default source, got %s", proposer.proposed.Source)
	}
}

func TestProposeAction_MissingContextHeaders(t *testing.T) {
	router := newTestRouter(&mockProposer{}, newMockExecutor(), &mockSuggester{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/actions", bytes.NewReader([]byte(`{}`)))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without identity headers, got %d", rec.Code)
	}
}

func TestProposeAction_UnknownType(t *testing.T) {
	proposer := &mockProposer{err: &apperrors.ErrUnknownActionType{ActionType: "launch_rocket"}}
	router := newTestRouter(proposer, newMockExecutor(), &mockSuggester{})

	body, _ := json.Marshal(map[string]interface{}{"action_type": "launch_rocket"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}
}

func TestGetAction_NotFound(t *testing.T) {
	router := newTestRouter(&mockProposer{}, newMockExecutor(), &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/actions/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetAction_Forbidden(t *testing.T) {
	executor := newMockExecutor()
	executor.err = &apperrors.ErrAuthorization{UserID: "u1", ActionID: "a1"}
	router := newTestRouter(&mockProposer{}, executor, &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/actions/a1", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestListActions_StatusFilter(t *testing.T) {
	executor := newMockExecutor()
	executor.actions["a1"] = &models.Action{ID: "a1", Status: models.StatusPending}
	executor.actions["a2"] = &models.Action{ID: "a2", Status: models.StatusExecuted}
	router := newTestRouter(&mockProposer{}, executor, &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/actions?status=pending", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []*models.Action
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestConfirmAndExecute(t *testing.T) {
	executor := newMockExecutor()
	executor.actions["a1"] = &models.Action{ID: "a1", Status: models.StatusPending}
	router := newTestRouter(&mockProposer{}, executor, &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions/a1/confirm", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions/a1/execute", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("execute: expected 200, got %d", rec.Code)
	}
	var got models.Action
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != models.StatusExecuted {
		t.Fatalf("expected executed, got %s", got.Status)
	}
}

func TestRejectWithReason(t *testing.T) {
	executor := newMockExecutor()
	executor.actions["a1"] = &models.Action{ID: "a1", Status: models.StatusPending}
	router := newTestRouter(&mockProposer{}, executor, &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions/a1/reject",
		[]byte(`{"reason":"wrong amount"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.Action
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != models.StatusRejected || got.Reason == nil || *got.Reason != "wrong amount" {
		t.Fatalf("unexpected action: %+v", got)
	}
}

func TestRateAction(t *testing.T) {
	executor := newMockExecutor()
	executor.actions["a1"] = &models.Action{ID: "a1", Status: models.StatusExecuted}
	router := newTestRouter(&mockProposer{}, executor, &mockSuggester{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions/a1/rate", []byte(`{"rating":6}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/actions/a1/rate", []byte(`{"rating":5}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.Action
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.UserRating == nil || *got.UserRating != 5 {
		t.Fatalf("expected rating persisted, got %+v", got)
	}
}
