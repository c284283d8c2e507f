package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/addyhq/addy-backend/internal/apperrors"
	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

// DefaultReviewThreshold is the extraction confidence below which a document
// field is flagged for user review.
const DefaultReviewThreshold = 0.8

type proposerService struct {
	actions         repositories.ActionRepository
	registry        *Registry
	logger          *zap.Logger
	reviewThreshold float64
}

// NewProposerService creates the proposer. reviewThreshold <= 0 falls back to
// the default.
func NewProposerService(actions repositories.ActionRepository, registry *Registry, logger *zap.Logger, reviewThreshold float64) ProposerService {
	if reviewThreshold <= 0 {
		reviewThreshold = DefaultReviewThreshold
	}
	return &proposerService{
		actions:         actions,
		registry:        registry,
		logger:          logger,
		reviewThreshold: reviewThreshold,
	}
}

func (s *proposerService) Propose(ctx context.Context, octx models.OperationContext, actionType string, payload map[string]interface{}, source string, sourceRef *string) (*models.Action, error) {
	return s.propose(ctx, octx, actionType, payload, source, sourceRef, nil)
}

func (s *proposerService) propose(ctx context.Context, octx models.OperationContext, actionType string, payload map[string]interface{}, source string, sourceRef *string, needsReview []string) (*models.Action, error) {
	if err := octx.Validate(); err != nil {
		return nil, &apperrors.ErrValidation{Field: "context", Message: err.Error()}
	}
	if source != models.SourceChat && source != models.SourceDocument {
		return nil, &apperrors.ErrValidation{Field: "source", Message: fmt.Sprintf("unknown source %q", source)}
	}
	if err := s.registry.ValidatePayload(actionType, payload); err != nil {
		return nil, err
	}

	a := &models.Action{
		ID:             uuid.NewString(),
		OrganizationID: octx.OrganizationID,
		UserID:         octx.UserID,
		ActionType:     actionType,
		Status:         models.StatusPending,
		Source:         source,
		SourceRef:      sourceRef,
		NeedsReview:    pq.StringArray(needsReview),
	}
	if err := a.SetPayload(payload); err != nil {
		return nil, err
	}
	if err := s.actions.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("proposed action",
		zap.String("action_id", a.ID),
		zap.String("action_type", actionType),
		zap.String("organization_id", octx.OrganizationID),
		zap.String("source", source),
		zap.Int("fields_needing_review", len(needsReview)))
	return a, nil
}

func (s *proposerService) ProposeFromIntent(ctx context.Context, octx models.OperationContext, intent *models.IntentResult) (*models.Action, error) {
	if intent == nil || intent.Kind == "none" {
		return nil, nil
	}
	var ref *string
	if intent.MessageRef != "" {
		ref = &intent.MessageRef
	}
	return s.propose(ctx, octx, intent.ActionType, intent.Payload, models.SourceChat, ref, nil)
}

func (s *proposerService) ProposeFromDocument(ctx context.Context, octx models.OperationContext, extraction *models.DocumentExtraction) (*models.Action, error) {
	if extraction == nil {
		return nil, &apperrors.ErrValidation{Field: "extraction", Message: "extraction is required"}
	}

	// Low-confidence fields are flagged, never blocked: the proposer only
	// proposes, the confirmation UI surfaces the flags.
	var needsReview []string
	for field, confidence := range extraction.FieldConfidence {
		if confidence < s.reviewThreshold {
			needsReview = append(needsReview, field)
		}
	}
	sort.Strings(needsReview)

	var ref *string
	if extraction.DocumentRef != "" {
		ref = &extraction.DocumentRef
	}
	return s.propose(ctx, octx, extraction.ActionType, extraction.Fields, models.SourceDocument, ref, needsReview)
}
