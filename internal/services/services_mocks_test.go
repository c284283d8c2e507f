package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

// ---- Mocks for repositories and services used in unit tests ----

type mockActionRepo struct {
	items map[string]*models.Action
}

func newMockActionRepo() *mockActionRepo {
	return &mockActionRepo{items: map[string]*models.Action{}}
}

func (m *mockActionRepo) Create(_ context.Context, a *models.Action) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockActionRepo) GetByID(_ context.Context, id string) (*models.Action, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("action not found: %s: %w", id, gorm.ErrRecordNotFound)
	}
	return a, nil
}

func (m *mockActionRepo) List(_ context.Context, organizationID, userID, status string, limit, offset int) ([]*models.Action, error) {
	var out []*models.Action
	for _, a := range m.items {
		if a.OrganizationID != organizationID || a.UserID != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockActionRepo) UpdateStatus(_ context.Context, id string, from []string, updates map[string]interface{}) (int64, error) {
	a, ok := m.items[id]
	if !ok {
		return 0, nil
	}
	matched := false
	for _, f := range from {
		if a.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return 0, nil
	}
	if v, ok := updates["status"].(string); ok {
		a.Status = v
	}
	if v, ok := updates["reason"].(string); ok {
		a.Reason = &v
	}
	return 1, nil
}

func (m *mockActionRepo) SetRating(_ context.Context, id string, rating int, ratedAt time.Time) (int64, error) {
	a, ok := m.items[id]
	if !ok || a.Status != models.StatusExecuted || a.UserRating != nil {
		return 0, nil
	}
	a.UserRating = &rating
	a.RatedAt = &ratedAt
	return 1, nil
}

func (m *mockActionRepo) PendingCountsBySource(_ context.Context, organizationID, source string) (map[string]int, error) {
	counts := map[string]int{}
	for _, a := range m.items {
		if a.OrganizationID == organizationID && a.Source == source && a.Status == models.StatusPending {
			counts[a.ActionType]++
		}
	}
	return counts, nil
}

type patternKey struct{ org, user, actionType string }

type mockPatternRepo struct {
	items map[patternKey]*models.ActionPattern
	// conflictsLeft makes the next N guarded updates fail as if a concurrent
	// writer had bumped the version.
	conflictsLeft int
	getOrCreates  int
}

func newMockPatternRepo() *mockPatternRepo {
	return &mockPatternRepo{items: map[patternKey]*models.ActionPattern{}}
}

func (m *mockPatternRepo) GetOrCreate(_ context.Context, org, user, actionType string) (*models.ActionPattern, error) {
	m.getOrCreates++
	k := patternKey{org, user, actionType}
	if p, ok := m.items[k]; ok {
		cp := *p
		return &cp, nil
	}
	p := &models.ActionPattern{
		ID:              uuid.NewString(),
		OrganizationID:  org,
		UserID:          user,
		ActionType:      actionType,
		ConfidenceScore: models.NeutralConfidence(),
	}
	m.items[k] = p
	cp := *p
	return &cp, nil
}

func (m *mockPatternRepo) Get(_ context.Context, org, user, actionType string) (*models.ActionPattern, error) {
	if p, ok := m.items[patternKey{org, user, actionType}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockPatternRepo) ListByUser(_ context.Context, org, user string) ([]*models.ActionPattern, error) {
	var out []*models.ActionPattern
	for k, p := range m.items {
		if k.org == org && k.user == user {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPatternRepo) UpdateGuarded(_ context.Context, next *models.ActionPattern) (int64, error) {
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return 0, nil
	}
	k := patternKey{next.OrganizationID, next.UserID, next.ActionType}
	p, ok := m.items[k]
	if !ok || p.Version != next.Version-1 {
		return 0, nil
	}
	cp := *next
	m.items[k] = &cp
	return 1, nil
}

type mockLedgerStore struct {
	entries  []*models.LedgerEntry
	invoices map[string]*models.Invoice
	accounts []*models.Account
	overdue  int
	balance  decimal.Decimal
}

func newMockLedgerStore() *mockLedgerStore {
	return &mockLedgerStore{invoices: map[string]*models.Invoice{}}
}

func (m *mockLedgerStore) CreateEntry(_ context.Context, e *models.LedgerEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockLedgerStore) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockLedgerStore) GetInvoice(_ context.Context, organizationID, id string) (*models.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.OrganizationID != organizationID {
		return nil, nil
	}
	return inv, nil
}

func (m *mockLedgerStore) MarkInvoicePaid(_ context.Context, organizationID, id string) (int64, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.OrganizationID != organizationID || inv.Status == models.InvoicePaid {
		return 0, nil
	}
	inv.Status = models.InvoicePaid
	return 1, nil
}

func (m *mockLedgerStore) FirstAccountByType(_ context.Context, organizationID, accountType string) (*models.Account, error) {
	for _, acc := range m.accounts {
		if acc.OrganizationID == organizationID && acc.Type == accountType {
			return acc, nil
		}
	}
	return nil, nil
}

func (m *mockLedgerStore) CreateAccount(_ context.Context, acc *models.Account) error {
	m.accounts = append(m.accounts, acc)
	return nil
}

func (m *mockLedgerStore) CountOverdueInvoices(_ context.Context, organizationID string, asOf time.Time) (int, error) {
	return m.overdue, nil
}

func (m *mockLedgerStore) CashBalance(_ context.Context, organizationID string) (decimal.Decimal, error) {
	return m.balance, nil
}

type mockTrustService struct {
	recorded []int
	lastType string
	fail     bool
}

func (m *mockTrustService) RecordRating(_ context.Context, org, user, actionType string, rating int) (*models.ActionPattern, error) {
	if m.fail {
		return nil, fmt.Errorf("trust store unavailable")
	}
	m.recorded = append(m.recorded, rating)
	m.lastType = actionType
	return &models.ActionPattern{}, nil
}

func (m *mockTrustService) Confidence(_ context.Context, org, user, actionType string) (float64, error) {
	return models.NeutralConfidence(), nil
}

// compile-time checks that mocks satisfy interfaces
var _ repositories.ActionRepository = (*mockActionRepo)(nil)
var _ repositories.PatternRepository = (*mockPatternRepo)(nil)
var _ repositories.LedgerStore = (*mockLedgerStore)(nil)
var _ TrustService = (*mockTrustService)(nil)
