package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

const (
	maxSuggestions = 5
	// staleAfter is the recency window: a pattern unused for longer gets a
	// gentle re-surface boost.
	staleAfter = 14 * 24 * time.Hour
)

// lowCashThreshold is the balance under which income-recording gets boosted.
var lowCashThreshold = decimal.NewFromInt(250)

type suggestionService struct {
	actions  repositories.ActionRepository
	patterns repositories.PatternRepository
	ledger   repositories.LedgerStore
	registry *Registry
	logger   *zap.Logger
	now      func() time.Time
}

func NewSuggestionService(actions repositories.ActionRepository, patterns repositories.PatternRepository, ledger repositories.LedgerStore, registry *Registry, logger *zap.Logger) SuggestionService {
	return &suggestionService{
		actions:  actions,
		patterns: patterns,
		ledger:   ledger,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *suggestionService) signals(ctx context.Context, organizationID string) (*models.ContextSignals, error) {
	pendingDocs, err := s.actions.PendingCountsBySource(ctx, organizationID, models.SourceDocument)
	if err != nil {
		return nil, err
	}
	overdue, err := s.ledger.CountOverdueInvoices(ctx, organizationID, s.now())
	if err != nil {
		return nil, err
	}
	balance, err := s.ledger.CashBalance(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	return &models.ContextSignals{
		PendingDocumentActions: pendingDocs,
		OverdueInvoices:        overdue,
		LowCashBalance:         balance.LessThan(lowCashThreshold),
	}, nil
}

type rankedSuggestion struct {
	suggestion *models.Suggestion
	lastUsed   *time.Time
}

func (s *suggestionService) GetSuggestedActions(ctx context.Context, octx models.OperationContext) ([]*models.Suggestion, error) {
	if err := octx.Validate(); err != nil {
		return nil, err
	}

	sig, err := s.signals(ctx, octx.OrganizationID)
	if err != nil {
		return nil, err
	}

	patternList, err := s.patterns.ListByUser(ctx, octx.OrganizationID, octx.UserID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*models.ActionPattern, len(patternList))
	for _, p := range patternList {
		byType[p.ActionType] = p
	}

	ranked := make([]rankedSuggestion, 0, len(s.registry.entries))
	for _, actionType := range s.registry.Types() {
		p := byType[actionType]

		confidence := models.NeutralConfidence()
		untested := p == nil || p.TotalCount == 0
		var lastUsed *time.Time
		if p != nil {
			confidence = p.ConfidenceScore
			lastUsed = p.LastUsedAt
		}

		weight, reasons := contextWeight(actionType, sig, lastUsed, s.now())

		rationale := reasons
		if untested {
			rationale = append(rationale, "untested for you so far")
		}
		ranked = append(ranked, rankedSuggestion{
			suggestion: &models.Suggestion{
				ActionType: actionType,
				Score:      confidence * weight,
				Rationale:  strings.Join(rationale, "; "),
				Untested:   untested,
			},
			lastUsed: lastUsed,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.suggestion.Score != b.suggestion.Score {
			return a.suggestion.Score > b.suggestion.Score
		}
		// Most recently useful first; never-used sorts last.
		switch {
		case a.lastUsed != nil && b.lastUsed != nil && !a.lastUsed.Equal(*b.lastUsed):
			return a.lastUsed.After(*b.lastUsed)
		case a.lastUsed != nil && b.lastUsed == nil:
			return true
		case a.lastUsed == nil && b.lastUsed != nil:
			return false
		}
		return a.suggestion.ActionType < b.suggestion.ActionType
	})

	out := make([]*models.Suggestion, 0, maxSuggestions)
	for _, r := range ranked {
		out = append(out, r.suggestion)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// contextWeight blends the lightweight activity signals into a multiplier,
// returning the human-readable reasons alongside.
func contextWeight(actionType string, sig *models.ContextSignals, lastUsed *time.Time, now time.Time) (float64, []string) {
	weight := 1.0
	var reasons []string

	// Boost only the types the pending documents actually propose, so the
	// multiplier can move them ahead of the rest of the catalog.
	if n := sig.PendingDocumentActions[actionType]; n > 0 {
		weight *= 1.25
		reasons = append(reasons, fmt.Sprintf("%d uploaded documents await review", n))
	}
	if lastUsed == nil || now.Sub(*lastUsed) > staleAfter {
		weight *= 1.2
		reasons = append(reasons, "not used recently")
	}
	if actionType == models.ActionRecordPayment && sig.OverdueInvoices > 0 {
		weight *= 1.3
		reasons = append(reasons, fmt.Sprintf("%d invoices are overdue", sig.OverdueInvoices))
	}
	if actionType == models.ActionRecordIncome && sig.LowCashBalance {
		weight *= 1.15
		reasons = append(reasons, "cash balance is running low")
	}
	return weight, reasons
}
