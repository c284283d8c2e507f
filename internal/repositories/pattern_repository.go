package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/models"
)

type patternRepository struct {
	db *db.DB
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(database *db.DB) PatternRepository {
	return &patternRepository{db: database}
}

func (r *patternRepository) GetOrCreate(ctx context.Context, organizationID, userID, actionType string) (*models.ActionPattern, error) {
	fresh := &models.ActionPattern{
		ID:              uuid.NewString(),
		OrganizationID:  organizationID,
		UserID:          userID,
		ActionType:      actionType,
		ConfidenceScore: models.NeutralConfidence(),
	}
	// Insert-or-ignore on the unique key; concurrent first use cannot create
	// duplicates, whichever insert lands first wins.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}, {Name: "user_id"}, {Name: "action_type"}},
			DoNothing: true,
		}).
		Create(fresh).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern: %w", err)
	}

	p, err := r.Get(ctx, organizationID, userID, actionType)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("pattern missing after insert for %s/%s/%s", organizationID, userID, actionType)
	}
	return p, nil
}

func (r *patternRepository) Get(ctx context.Context, organizationID, userID, actionType string) (*models.ActionPattern, error) {
	var p models.ActionPattern
	err := r.db.WithContext(ctx).
		First(&p, "organization_id = ? AND user_id = ? AND action_type = ?", organizationID, userID, actionType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pattern: %w", err)
	}
	return &p, nil
}

func (r *patternRepository) ListByUser(ctx context.Context, organizationID, userID string) ([]*models.ActionPattern, error) {
	var list []*models.ActionPattern
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	return list, nil
}

func (r *patternRepository) UpdateGuarded(ctx context.Context, next *models.ActionPattern) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.ActionPattern{}).
		Where("id = ? AND version = ?", next.ID, next.Version-1).
		Updates(map[string]interface{}{
			"total_count":      next.TotalCount,
			"success_count":    next.SuccessCount,
			"average_rating":   next.AverageRating,
			"confidence_score": next.ConfidenceScore,
			"last_used_at":     next.LastUsedAt,
			"version":          next.Version,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update pattern: %w", res.Error)
	}
	return res.RowsAffected, nil
}
