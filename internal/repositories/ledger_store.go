package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/models"
)

type ledgerStore struct {
	q *gorm.DB
}

// NewLedgerStore creates a ledger store over the given gorm handle. Pass a
// transaction handle to scope every write to that transaction.
func NewLedgerStore(q *gorm.DB) LedgerStore {
	return &ledgerStore{q: q}
}

func (s *ledgerStore) CreateEntry(ctx context.Context, e *models.LedgerEntry) error {
	if err := s.q.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

func (s *ledgerStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := s.q.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (s *ledgerStore) GetInvoice(ctx context.Context, organizationID, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.q.WithContext(ctx).First(&inv, "organization_id = ? AND id = ?", organizationID, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &inv, nil
}

func (s *ledgerStore) MarkInvoicePaid(ctx context.Context, organizationID, id string) (int64, error) {
	res := s.q.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ? AND id = ? AND status <> ?", organizationID, id, models.InvoicePaid).
		Updates(map[string]interface{}{
			"status":     models.InvoicePaid,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark invoice paid: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *ledgerStore) FirstAccountByType(ctx context.Context, organizationID, accountType string) (*models.Account, error) {
	var acc models.Account
	err := s.q.WithContext(ctx).
		Order("created_at ASC").
		First(&acc, "organization_id = ? AND type = ?", organizationID, accountType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &acc, nil
}

func (s *ledgerStore) CreateAccount(ctx context.Context, acc *models.Account) error {
	if err := s.q.WithContext(ctx).Create(acc).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *ledgerStore) CountOverdueInvoices(ctx context.Context, organizationID string, asOf time.Time) (int, error) {
	var count int64
	// Drafts never reached the customer, so they cannot be overdue.
	err := s.q.WithContext(ctx).Model(&models.Invoice{}).
		Where("organization_id = ? AND status IN ? AND due_date IS NOT NULL AND due_date < ?",
			organizationID, []string{models.InvoiceSent, models.InvoiceOverdue}, asOf).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue invoices: %w", err)
	}
	return int(count), nil
}

func (s *ledgerStore) CashBalance(ctx context.Context, organizationID string) (decimal.Decimal, error) {
	var income, expense decimal.Decimal
	base := "SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE organization_id = ? AND direction = ?"
	if err := s.q.WithContext(ctx).Raw(base, organizationID, models.DirectionIncome).Row().Scan(&income); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}
	if err := s.q.WithContext(ctx).Raw(base, organizationID, models.DirectionExpense).Row().Scan(&expense); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return income.Sub(expense), nil
}
