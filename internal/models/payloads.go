package models

import (
	"encoding/json"
	"time"

	"github.com/addyhq/addy-backend/internal/apperrors"
)

// Registered action types
const (
	ActionRecordExpense = "record_expense"
	ActionRecordIncome  = "record_income"
	ActionCreateInvoice = "create_invoice"
	ActionRecordPayment = "record_payment"
)

func toMap[T any](s T) map[string]interface{} {
	data, _ := json.Marshal(s)
	var result map[string]interface{}
	json.Unmarshal(data, &result)
	return result
}

func fromMap[T any](m map[string]interface{}, s *T) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, s)
}

// RecordExpenseParams records a money outflow against a ledger account.
type RecordExpenseParams struct {
	Date        time.Time `json:"date,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
}

func (p RecordExpenseParams) ToMap() map[string]interface{} { return toMap(p) }

func (p *RecordExpenseParams) FromMap(m map[string]interface{}) error { return fromMap(m, p) }

func (p RecordExpenseParams) Validate() error {
	if p.Amount <= 0 {
		return &apperrors.ErrInvalidPayload{Field: "amount", Message: "amount must be > 0"}
	}
	if p.Description == "" {
		return &apperrors.ErrInvalidPayload{Field: "description", Message: "description is required"}
	}
	return nil
}

// RecordIncomeParams records a money inflow.
type RecordIncomeParams struct {
	Date        time.Time `json:"date,omitempty"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency,omitempty"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	AccountID   string    `json:"account_id,omitempty"`
}

func (p RecordIncomeParams) ToMap() map[string]interface{} { return toMap(p) }

func (p *RecordIncomeParams) FromMap(m map[string]interface{}) error { return fromMap(m, p) }

func (p RecordIncomeParams) Validate() error {
	if p.Amount <= 0 {
		return &apperrors.ErrInvalidPayload{Field: "amount", Message: "amount must be > 0"}
	}
	if p.Description == "" {
		return &apperrors.ErrInvalidPayload{Field: "description", Message: "description is required"}
	}
	return nil
}

// CreateInvoiceParams creates a draft invoice plus its receivable entry.
type CreateInvoiceParams struct {
	CustomerName string    `json:"customer_name"`
	Total        float64   `json:"total"`
	Currency     string    `json:"currency,omitempty"`
	DueDate      time.Time `json:"due_date,omitempty"`
	Description  string    `json:"description,omitempty"`
}

func (p CreateInvoiceParams) ToMap() map[string]interface{} { return toMap(p) }

func (p *CreateInvoiceParams) FromMap(m map[string]interface{}) error { return fromMap(m, p) }

func (p CreateInvoiceParams) Validate() error {
	if p.CustomerName == "" {
		return &apperrors.ErrInvalidPayload{Field: "customer_name", Message: "customer_name is required"}
	}
	if p.Total <= 0 {
		return &apperrors.ErrInvalidPayload{Field: "total", Message: "total must be > 0"}
	}
	return nil
}

// RecordPaymentParams settles an existing invoice.
type RecordPaymentParams struct {
	InvoiceID string    `json:"invoice_id"`
	Date      time.Time `json:"date,omitempty"`
	AccountID string    `json:"account_id,omitempty"`
}

func (p RecordPaymentParams) ToMap() map[string]interface{} { return toMap(p) }

func (p *RecordPaymentParams) FromMap(m map[string]interface{}) error { return fromMap(m, p) }

func (p RecordPaymentParams) Validate() error {
	if p.InvoiceID == "" {
		return &apperrors.ErrInvalidPayload{Field: "invoice_id", Message: "invoice_id is required"}
	}
	return nil
}
