package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/addyhq/addy-backend/internal/models"
)

// ActionRepository defines persistence for proposed actions. Status
// transitions go through conditional updates so the precondition is embedded
// in the write itself; callers check the affected-row count.
type ActionRepository interface {
	Create(ctx context.Context, a *models.Action) error
	GetByID(ctx context.Context, id string) (*models.Action, error)
	// List pages over one user's actions; pagination happens in SQL after
	// both tenant and owner scoping.
	List(ctx context.Context, organizationID, userID, status string, limit, offset int) ([]*models.Action, error)
	// UpdateStatus applies updates only when the current status is one of
	// from. Returns the number of rows affected (0 or 1).
	UpdateStatus(ctx context.Context, id string, from []string, updates map[string]interface{}) (int64, error)
	// SetRating stores a rating only when the action is executed and unrated.
	SetRating(ctx context.Context, id string, rating int, ratedAt time.Time) (int64, error)
	// PendingCountsBySource returns pending-action counts keyed by action type.
	PendingCountsBySource(ctx context.Context, organizationID, source string) (map[string]int, error)
}

// PatternRepository persists trust aggregates. GetOrCreate has insert-or-fetch
// semantics; UpdateGuarded is the version-checked write of the CAS loop.
type PatternRepository interface {
	GetOrCreate(ctx context.Context, organizationID, userID, actionType string) (*models.ActionPattern, error)
	Get(ctx context.Context, organizationID, userID, actionType string) (*models.ActionPattern, error)
	ListByUser(ctx context.Context, organizationID, userID string) ([]*models.ActionPattern, error)
	// UpdateGuarded writes next only if the stored version is next.Version-1.
	// Returns rows affected; 0 means a concurrent writer won and the caller
	// should re-read and retry.
	UpdateGuarded(ctx context.Context, next *models.ActionPattern) (int64, error)
}

// LedgerStore is the side-effect surface action handlers write through. It is
// constructed over whatever gorm handle is in scope, so inside the executor's
// transaction every write joins that transaction.
type LedgerStore interface {
	CreateEntry(ctx context.Context, e *models.LedgerEntry) error
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, organizationID, id string) (*models.Invoice, error)
	// MarkInvoicePaid flips an unpaid invoice to paid; 0 rows means missing or
	// already paid.
	MarkInvoicePaid(ctx context.Context, organizationID, id string) (int64, error)
	FirstAccountByType(ctx context.Context, organizationID, accountType string) (*models.Account, error)
	CreateAccount(ctx context.Context, acc *models.Account) error
	CountOverdueInvoices(ctx context.Context, organizationID string, asOf time.Time) (int, error)
	CashBalance(ctx context.Context, organizationID string) (decimal.Decimal, error)
}
