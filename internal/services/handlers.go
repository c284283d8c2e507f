package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/addyhq/addy-backend/internal/models"
)

// Built-in action handlers. Each is a pure function of (payload, context):
// all state goes through hctx.Ledger.

func handleRecordExpense(ctx context.Context, hctx *HandlerContext, params map[string]interface{}) (*models.ActionResult, error) {
	var p models.RecordExpenseParams
	if err := p.FromMap(params); err != nil {
		return nil, fmt.Errorf("invalid record_expense params: %w", err)
	}
	entry, err := writeMoneyMovement(ctx, hctx, models.DirectionExpense, p.Amount, p.Currency, p.Description, p.Category, p.AccountID, p.Date)
	if err != nil {
		return nil, err
	}
	return &models.ActionResult{
		CreatedEntryIDs: []string{entry.ID},
		Message:         fmt.Sprintf("Recorded expense of %s %s for %q", entry.Amount, entry.Currency, p.Description),
	}, nil
}

func handleRecordIncome(ctx context.Context, hctx *HandlerContext, params map[string]interface{}) (*models.ActionResult, error) {
	var p models.RecordIncomeParams
	if err := p.FromMap(params); err != nil {
		return nil, fmt.Errorf("invalid record_income params: %w", err)
	}
	entry, err := writeMoneyMovement(ctx, hctx, models.DirectionIncome, p.Amount, p.Currency, p.Description, p.Category, p.AccountID, p.Date)
	if err != nil {
		return nil, err
	}
	return &models.ActionResult{
		CreatedEntryIDs: []string{entry.ID},
		Message:         fmt.Sprintf("Recorded income of %s %s for %q", entry.Amount, entry.Currency, p.Description),
	}, nil
}

func writeMoneyMovement(ctx context.Context, hctx *HandlerContext, direction string, amount float64, currency, description, category, accountID string, date time.Time) (*models.LedgerEntry, error) {
	if accountID == "" {
		acc, err := ResolveOrCreateDefaultAccount(ctx, hctx.Ledger, hctx.Op.OrganizationID, models.AccountCash)
		if err != nil {
			return nil, err
		}
		accountID = acc.ID
		if currency == "" {
			currency = acc.Currency
		}
	}
	if currency == "" {
		currency = "USD"
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.LedgerEntry{
		ID:             uuid.NewString(),
		OrganizationID: hctx.Op.OrganizationID,
		Date:           date,
		Direction:      direction,
		Amount:         decimal.NewFromFloat(amount),
		Currency:       currency,
		Description:    description,
		AccountID:      accountID,
		ActionID:       &hctx.ActionID,
	}
	if category != "" {
		entry.Category = &category
	}
	if err := hctx.Ledger.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func handleCreateInvoice(ctx context.Context, hctx *HandlerContext, params map[string]interface{}) (*models.ActionResult, error) {
	var p models.CreateInvoiceParams
	if err := p.FromMap(params); err != nil {
		return nil, fmt.Errorf("invalid create_invoice params: %w", err)
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	inv := &models.Invoice{
		ID:             uuid.NewString(),
		OrganizationID: hctx.Op.OrganizationID,
		CustomerName:   p.CustomerName,
		Total:          decimal.NewFromFloat(p.Total),
		Currency:       currency,
		Status:         models.InvoiceDraft,
		ActionID:       &hctx.ActionID,
	}
	if !p.DueDate.IsZero() {
		due := p.DueDate
		inv.DueDate = &due
	}
	if err := hctx.Ledger.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	// Receivable entry so the amount is visible as expected income.
	recv, err := ResolveOrCreateDefaultAccount(ctx, hctx.Ledger, hctx.Op.OrganizationID, models.AccountReceivable)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("Invoice for %s", p.CustomerName)
	if p.Description != "" {
		desc = p.Description
	}
	entry := &models.LedgerEntry{
		ID:             uuid.NewString(),
		OrganizationID: hctx.Op.OrganizationID,
		Date:           time.Now(),
		Direction:      models.DirectionIncome,
		Amount:         inv.Total,
		Currency:       currency,
		Description:    desc,
		AccountID:      recv.ID,
		ActionID:       &hctx.ActionID,
	}
	if err := hctx.Ledger.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	return &models.ActionResult{
		CreatedInvoiceID: inv.ID,
		CreatedEntryIDs:  []string{entry.ID},
		Message:          fmt.Sprintf("Created draft invoice for %s totalling %s %s", p.CustomerName, inv.Total, currency),
	}, nil
}

func handleRecordPayment(ctx context.Context, hctx *HandlerContext, params map[string]interface{}) (*models.ActionResult, error) {
	var p models.RecordPaymentParams
	if err := p.FromMap(params); err != nil {
		return nil, fmt.Errorf("invalid record_payment params: %w", err)
	}

	inv, err := hctx.Ledger.GetInvoice(ctx, hctx.Op.OrganizationID, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("invoice %s not found", p.InvoiceID)
	}

	n, err := hctx.Ledger.MarkInvoicePaid(ctx, hctx.Op.OrganizationID, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("invoice %s is already paid", p.InvoiceID)
	}

	accountID := p.AccountID
	if accountID == "" {
		acc, err := ResolveOrCreateDefaultAccount(ctx, hctx.Ledger, hctx.Op.OrganizationID, models.AccountBank)
		if err != nil {
			return nil, err
		}
		accountID = acc.ID
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry := &models.LedgerEntry{
		ID:             uuid.NewString(),
		OrganizationID: hctx.Op.OrganizationID,
		Date:           date,
		Direction:      models.DirectionIncome,
		Amount:         inv.Total,
		Currency:       inv.Currency,
		Description:    fmt.Sprintf("Payment for invoice %s (%s)", inv.ID, inv.CustomerName),
		AccountID:      accountID,
		ActionID:       &hctx.ActionID,
	}
	if err := hctx.Ledger.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	return &models.ActionResult{
		CreatedEntryIDs: []string{entry.ID},
		Message:         fmt.Sprintf("Marked invoice %s paid and recorded %s %s received", inv.ID, inv.Total, inv.Currency),
	}, nil
}
