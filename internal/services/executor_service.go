package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/apperrors"
	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

type executorService struct {
	db       *db.DB
	actions  repositories.ActionRepository
	registry *Registry
	trust    TrustService
	logger   *zap.Logger
}

// NewExecutorService creates the executor. trust may be nil in tests that do
// not exercise rating.
func NewExecutorService(database *db.DB, actions repositories.ActionRepository, registry *Registry, trust TrustService, logger *zap.Logger) ExecutorService {
	return &executorService{
		db:       database,
		actions:  actions,
		registry: registry,
		trust:    trust,
		logger:   logger,
	}
}

// loadOwned fetches the action and enforces tenant scope and ownership.
func (s *executorService) loadOwned(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error) {
	a, err := s.actions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OrganizationID != octx.OrganizationID || a.UserID != octx.UserID {
		return nil, &apperrors.ErrAuthorization{UserID: octx.UserID, ActionID: id}
	}
	return a, nil
}

func (s *executorService) Get(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error) {
	return s.loadOwned(ctx, octx, id)
}

func (s *executorService) List(ctx context.Context, octx models.OperationContext, status string, limit, offset int) ([]*models.Action, error) {
	return s.actions.List(ctx, octx.OrganizationID, octx.UserID, status, limit, offset)
}

func (s *executorService) Confirm(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error) {
	a, err := s.loadOwned(ctx, octx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.actions.UpdateStatus(ctx, id, []string{models.StatusPending}, map[string]interface{}{
		"status":       models.StatusConfirmed,
		"confirmed_at": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.transitionError(ctx, "confirm", id, a.Status)
	}
	return s.actions.GetByID(ctx, id)
}

func (s *executorService) Execute(ctx context.Context, octx models.OperationContext, id string) (*models.Action, error) {
	a, err := s.loadOwned(ctx, octx, id)
	if err != nil {
		return nil, err
	}

	if models.IsTerminal(a.Status) {
		if a.Status == models.StatusExecuted {
			return nil, apperrors.NewAlreadyExecuted("execute")
		}
		return nil, apperrors.NewInvalidTransition("execute", a.Status)
	}

	handler, ok := s.registry.Handler(a.ActionType)
	if !ok {
		return nil, &apperrors.ErrUnknownActionType{ActionType: a.ActionType}
	}
	params, err := a.PayloadMap()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the action first. Concurrent executes serialize on this row:
		// the loser sees zero rows and no side effect is double-applied.
		n, err := repositories.ExecuteStatusUpdate(tx, id, []string{models.StatusPending, models.StatusConfirmed}, map[string]interface{}{
			"status":      models.StatusExecuted,
			"executed_at": time.Now(),
		})
		if err != nil {
			return err
		}
		if n == 0 {
			// Re-read on the transaction handle so we report what the store
			// saw, typically a concurrent execute that won the claim.
			current := a.Status
			var fresh models.Action
			if err := tx.First(&fresh, "id = ?", id).Error; err == nil {
				current = fresh.Status
			}
			if current == models.StatusExecuted {
				return apperrors.NewAlreadyExecuted("execute")
			}
			return apperrors.NewInvalidTransition("execute", current)
		}

		hctx := &HandlerContext{
			Op:       octx,
			Ledger:   repositories.NewLedgerStore(tx),
			ActionID: a.ID,
		}
		result, err := handler(ctx, hctx, params)
		if err != nil {
			// Rolls back the claim along with any partial writes: the action
			// stays in its prior status and execute can be retried.
			return &apperrors.ErrExecutionFailure{Cause: err}
		}

		stored := &models.Action{}
		if err := stored.SetResult(result); err != nil {
			return err
		}
		if err := tx.Model(&models.Action{}).Where("id = ?", id).
			Update("result", stored.Result).Error; err != nil {
			return fmt.Errorf("failed to store result: %w", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsExecutionFailure(err) {
			s.logger.Warn("action execution failed",
				zap.String("action_id", id),
				zap.String("action_type", a.ActionType),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("executed action",
		zap.String("action_id", id),
		zap.String("action_type", a.ActionType),
		zap.String("organization_id", octx.OrganizationID))
	return s.actions.GetByID(ctx, id)
}

func (s *executorService) Reject(ctx context.Context, octx models.OperationContext, id, reason string) (*models.Action, error) {
	return s.close(ctx, octx, id, models.StatusRejected, "reject", reason)
}

func (s *executorService) Cancel(ctx context.Context, octx models.OperationContext, id, reason string) (*models.Action, error) {
	return s.close(ctx, octx, id, models.StatusCancelled, "cancel", reason)
}

func (s *executorService) close(ctx context.Context, octx models.OperationContext, id, to, op, reason string) (*models.Action, error) {
	a, err := s.loadOwned(ctx, octx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["reason"] = reason
	}
	n, err := s.actions.UpdateStatus(ctx, id, []string{models.StatusPending}, updates)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.transitionError(ctx, op, id, a.Status)
	}
	return s.actions.GetByID(ctx, id)
}

func (s *executorService) Rate(ctx context.Context, octx models.OperationContext, id string, rating int) (*models.Action, error) {
	if rating < 1 || rating > 5 {
		return nil, &apperrors.ErrValidation{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	a, err := s.loadOwned(ctx, octx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusExecuted {
		return nil, apperrors.NewInvalidTransition("rate", a.Status)
	}
	if a.UserRating != nil {
		return nil, apperrors.NewAlreadyRated("rate")
	}

	n, err := s.actions.SetRating(ctx, id, rating, time.Now())
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost a race: either the status regressed (impossible, executed is
		// terminal) or another rating landed first.
		return nil, apperrors.NewAlreadyRated("rate")
	}

	if s.trust != nil {
		if _, err := s.trust.RecordRating(ctx, a.OrganizationID, a.UserID, a.ActionType, rating); err != nil {
			// The rating is durable and cannot be re-submitted; learning can
			// catch up on the next rating, so log instead of failing.
			s.logger.Error("trust update failed after rating",
				zap.String("action_id", id),
				zap.String("action_type", a.ActionType),
				zap.Error(err))
		}
	}
	return s.actions.GetByID(ctx, id)
}

// transitionError re-reads the current status so the client sees what the
// store saw, and maps the executed case to the AlreadyExecuted sentinel.
func (s *executorService) transitionError(ctx context.Context, op, id, fallback string) error {
	current := fallback
	if fresh, err := s.actions.GetByID(ctx, id); err == nil {
		current = fresh.Status
	}
	if current == models.StatusExecuted {
		return apperrors.NewAlreadyExecuted(op)
	}
	return apperrors.NewInvalidTransition(op, current)
}
