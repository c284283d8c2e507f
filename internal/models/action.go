package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Action statuses. Terminal statuses permit no further transition.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusExecuted  = "executed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Action sources
const (
	SourceChat     = "chat"
	SourceDocument = "document"
)

// Action represents one proposed unit of business work tracked through the
// confirm/execute lifecycle. Actions are never deleted; the table is the
// audit trail.
type Action struct {
	ID             string          `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	OrganizationID string          `json:"organization_id" gorm:"column:organization_id;type:varchar(255);not null;index"`
	UserID         string          `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;index"`
	ActionType     string          `json:"action_type" gorm:"column:action_type;type:varchar(50);not null;index"`
	Payload        json.RawMessage `json:"payload" gorm:"column:payload;type:jsonb"`
	NeedsReview    pq.StringArray  `json:"needs_review" gorm:"column:needs_review;type:text[]"`
	Status         string          `json:"status" gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	Result         json.RawMessage `json:"result" gorm:"column:result;type:jsonb"`
	UserRating     *int            `json:"user_rating" gorm:"column:user_rating;type:integer"`
	Source         string          `json:"source" gorm:"column:source;type:varchar(20);not null"`
	SourceRef      *string         `json:"source_ref" gorm:"column:source_ref;type:varchar(255)"`
	Reason         *string         `json:"reason" gorm:"column:reason;type:text"`
	CreatedAt      time.Time       `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
	ConfirmedAt    *time.Time      `json:"confirmed_at" gorm:"column:confirmed_at"`
	ExecutedAt     *time.Time      `json:"executed_at" gorm:"column:executed_at"`
	RatedAt        *time.Time      `json:"rated_at" gorm:"column:rated_at"`
}

func (Action) TableName() string { return "actions" }

// ActionResult is the structured output of a successful execution, stored as
// the action's result column.
type ActionResult struct {
	CreatedEntryIDs  []string `json:"created_entry_ids,omitempty"`
	CreatedInvoiceID string   `json:"created_invoice_id,omitempty"`
	Message          string   `json:"message"`
}

// IsTerminal reports whether a status permits no further transition.
func IsTerminal(status string) bool {
	switch status {
	case StatusExecuted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func (a *Action) SetPayload(params map[string]interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	a.Payload = data
	return nil
}

func (a *Action) PayloadMap() (map[string]interface{}, error) {
	if len(a.Payload) == 0 {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(a.Payload, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return m, nil
}

func (a *Action) SetResult(res *ActionResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	a.Result = data
	return nil
}

func (a *Action) ResultValue() (*ActionResult, error) {
	if len(a.Result) == 0 {
		return nil, nil
	}
	var res ActionResult
	if err := json.Unmarshal(a.Result, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &res, nil
}

// OperationContext carries the tenant scope of every engine call. The core
// never reads ambient state; controllers build this from the request.
type OperationContext struct {
	OrganizationID string
	UserID         string
}

func (c OperationContext) Validate() error {
	if c.OrganizationID == "" {
		return fmt.Errorf("organization id is required")
	}
	if c.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}
