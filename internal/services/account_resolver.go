package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

// Default account names created on first use, keyed by account type.
var defaultAccountNames = map[string]string{
	models.AccountCash:       "Cash",
	models.AccountBank:       "Bank",
	models.AccountReceivable: "Accounts Receivable",
}

// ResolveOrCreateDefaultAccount is the single fallback policy every handler
// uses when a payload names no account: the oldest account of the requested
// type, created with a canonical name if none exists yet. Runs on whatever
// gorm handle backs the store, so inside an execution it joins that
// transaction.
func ResolveOrCreateDefaultAccount(ctx context.Context, store repositories.LedgerStore, organizationID, accountType string) (*models.Account, error) {
	acc, err := store.FirstAccountByType(ctx, organizationID, accountType)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		return acc, nil
	}

	name, ok := defaultAccountNames[accountType]
	if !ok {
		return nil, fmt.Errorf("no default account policy for type %q", accountType)
	}
	acc = &models.Account{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Type:           accountType,
		Currency:       "USD",
	}
	if err := store.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}
