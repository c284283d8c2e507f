package services

import (
	"context"

	"github.com/addyhq/addy-backend/internal/models"
)

// ProposerService turns external intents and document extractions into
// persisted pending actions. It never touches the ledger.
type ProposerService interface {
	Propose(ctx context.Context, octx models.OperationContext, actionType string, payload map[string]interface{}, source string, sourceRef *string) (*models.Action, error)
	// ProposeFromIntent returns (nil, nil) for a "none" intent (pure chat).
	ProposeFromIntent(ctx context.Context, octx models.OperationContext, intent *models.IntentResult) (*models.Action, error)
	ProposeFromDocument(ctx context.Context, octx models.OperationContext, extraction *models.DocumentExtraction) (*models.Action, error)
}

// ExecutorService owns the action state machine.
type ExecutorService interface {
	Get(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error)
	List(ctx context.Context, octx models.OperationContext, status string, limit, offset int) ([]*models.Action, error)
	Confirm(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error)
	Execute(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error)
	Reject(ctx context.Context, octx models.OperationContext, id, reason string) (*models.Action, error)
	Cancel(ctx context.Context, octx models.OperationContext, id, reason string) (*models.Action, error)
	Rate(ctx context.Context, octx models.OperationContext, id string, rating int) (*models.Action, error)
}

// TrustService learns per-(organization, user, action type) reliability from
// post-execution ratings.
type TrustService interface {
	RecordRating(ctx context.Context, organizationID, userID, actionType string, rating int) (*models.ActionPattern, error)
	Confidence(ctx context.Context, organizationID, userID, actionType string) (float64, error)
}

// SuggestionService ranks candidate next actions for a user.
type SuggestionService interface {
	GetSuggestedActions(ctx context.Context, octx models.OperationContext) ([]*models.Suggestion, error)
}
