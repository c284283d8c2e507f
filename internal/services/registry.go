package services

import (
	"context"
	"sort"

	"github.com/addyhq/addy-backend/internal/apperrors"
	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

// HandlerContext is what an action handler gets to work with during
// execution. Ledger is scoped to the executor's transaction, so every write a
// handler makes commits or rolls back with the status flip.
type HandlerContext struct {
	Op       models.OperationContext
	Ledger   repositories.LedgerStore
	ActionID string
}

// ActionHandler performs one action type's concrete side effect. A returned
// error is a business failure: the whole execution rolls back and the action
// stays retryable.
type ActionHandler func(ctx context.Context, hctx *HandlerContext, params map[string]interface{}) (*models.ActionResult, error)

// PayloadValidator checks a proposal payload at propose time.
type PayloadValidator func(params map[string]interface{}) error

type registration struct {
	validate PayloadValidator
	handle   ActionHandler
}

// Registry maps action types to their validator and handler. Adding an action
// type is a registration, never an edit to dispatch logic.
type Registry struct {
	entries map[string]registration
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]registration{}}
}

func (r *Registry) Register(actionType string, validate PayloadValidator, handle ActionHandler) {
	r.entries[actionType] = registration{validate: validate, handle: handle}
}

func (r *Registry) Handler(actionType string) (ActionHandler, bool) {
	reg, ok := r.entries[actionType]
	if !ok {
		return nil, false
	}
	return reg.handle, true
}

// ValidatePayload rejects unknown types and malformed payloads.
func (r *Registry) ValidatePayload(actionType string, params map[string]interface{}) error {
	reg, ok := r.entries[actionType]
	if !ok {
		return &apperrors.ErrUnknownActionType{ActionType: actionType}
	}
	if reg.validate == nil {
		return nil
	}
	return reg.validate(params)
}

// Types returns the registered catalog, sorted for determinism.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultRegistry returns the platform's built-in action catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(models.ActionRecordExpense, validateWith(func() payloadParams { return &models.RecordExpenseParams{} }), handleRecordExpense)
	r.Register(models.ActionRecordIncome, validateWith(func() payloadParams { return &models.RecordIncomeParams{} }), handleRecordIncome)
	r.Register(models.ActionCreateInvoice, validateWith(func() payloadParams { return &models.CreateInvoiceParams{} }), handleCreateInvoice)
	r.Register(models.ActionRecordPayment, validateWith(func() payloadParams { return &models.RecordPaymentParams{} }), handleRecordPayment)
	return r
}

type payloadParams interface {
	FromMap(m map[string]interface{}) error
	Validate() error
}

func validateWith(newParams func() payloadParams) PayloadValidator {
	return func(params map[string]interface{}) error {
		p := newParams()
		if err := p.FromMap(params); err != nil {
			return &apperrors.ErrInvalidPayload{Field: "payload", Message: err.Error()}
		}
		return p.Validate()
	}
}
