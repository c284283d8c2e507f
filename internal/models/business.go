package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry directions
const (
	DirectionExpense = "expense"
	DirectionIncome  = "income"
)

// Account types
const (
	AccountCash       = "cash"
	AccountBank       = "bank"
	AccountReceivable = "receivable"
)

// Invoice statuses
const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

// LedgerEntry is the money-movement record an executed action produces.
// ActionID links back to the originating action for traceability.
type LedgerEntry struct {
	ID             string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	OrganizationID string          `json:"organization_id" gorm:"column:organization_id;type:varchar(255);not null;index"`
	Date           time.Time       `json:"date" gorm:"column:date;not null;index"`
	Direction      string          `json:"direction" gorm:"column:direction;type:varchar(20);not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(30,10);not null"`
	Currency       string          `json:"currency" gorm:"column:currency;type:varchar(10);not null"`
	Category       *string         `json:"category" gorm:"column:category;type:varchar(100);index"`
	Description    string          `json:"description" gorm:"column:description;type:text;not null"`
	AccountID      string          `json:"account_id" gorm:"column:account_id;type:varchar(255);not null;index"`
	ActionID       *string         `json:"action_id" gorm:"column:action_id;type:varchar(255);index"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// Account is a minimal money account. Full account CRUD lives outside the
// engine; the executor only needs the default-resolution contract.
type Account struct {
	ID             string    `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	OrganizationID string    `json:"organization_id" gorm:"column:organization_id;type:varchar(255);not null;uniqueIndex:idx_account_org_type_name"`
	Name           string    `json:"name" gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_account_org_type_name"`
	Type           string    `json:"type" gorm:"column:type;type:varchar(20);not null;uniqueIndex:idx_account_org_type_name"`
	Currency       string    `json:"currency" gorm:"column:currency;type:varchar(10);not null;default:'USD'"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Account) TableName() string { return "accounts" }

// Invoice is a minimal invoice record, enough for create_invoice and
// record_payment handlers plus the overdue signal read by suggestions.
type Invoice struct {
	ID             string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	OrganizationID string          `json:"organization_id" gorm:"column:organization_id;type:varchar(255);not null;index"`
	CustomerName   string          `json:"customer_name" gorm:"column:customer_name;type:varchar(255);not null"`
	Total          decimal.Decimal `json:"total" gorm:"column:total;type:decimal(30,10);not null"`
	Currency       string          `json:"currency" gorm:"column:currency;type:varchar(10);not null"`
	Status         string          `json:"status" gorm:"column:status;type:varchar(20);not null;default:'draft';index"`
	DueDate        *time.Time      `json:"due_date" gorm:"column:due_date;index"`
	ActionID       *string         `json:"action_id" gorm:"column:action_id;type:varchar(255);index"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Invoice) TableName() string { return "invoices" }
