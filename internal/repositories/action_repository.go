package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/addyhq/addy-backend/internal/db"
	"github.com/addyhq/addy-backend/internal/models"
)

type actionRepository struct {
	db *db.DB
}

// NewActionRepository creates a new action repository
func NewActionRepository(database *db.DB) ActionRepository {
	return &actionRepository{db: database}
}

func (r *actionRepository) Create(ctx context.Context, a *models.Action) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create action: %w", err)
	}
	return nil
}

func (r *actionRepository) GetByID(ctx context.Context, id string) (*models.Action, error) {
	if id == "" {
		return nil, fmt.Errorf("action not found: %w", gorm.ErrRecordNotFound)
	}
	var a models.Action
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("action not found: %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get action: %w", err)
	}
	return &a, nil
}

func (r *actionRepository) List(ctx context.Context, organizationID, userID, status string, limit, offset int) ([]*models.Action, error) {
	var list []*models.Action
	q := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("organization_id = ? AND user_id = ?", organizationID, userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	return list, nil
}

func (r *actionRepository) UpdateStatus(ctx context.Context, id string, from []string, updates map[string]interface{}) (int64, error) {
	return updateStatus(r.db.WithContext(ctx), id, from, updates)
}

// updateStatus is shared with the executor, which calls it on its own
// transaction handle so the flip commits or rolls back with the side effect.
func updateStatus(q *gorm.DB, id string, from []string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now()
	res := q.Model(&models.Action{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update action status: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *actionRepository) SetRating(ctx context.Context, id string, rating int, ratedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("id = ? AND status = ? AND user_rating IS NULL", id, models.StatusExecuted).
		Updates(map[string]interface{}{
			"user_rating": rating,
			"rated_at":    ratedAt,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to set rating: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *actionRepository) PendingCountsBySource(ctx context.Context, organizationID, source string) (map[string]int, error) {
	var rows []struct {
		ActionType string
		Count      int
	}
	err := r.db.WithContext(ctx).Model(&models.Action{}).
		Select("action_type, COUNT(*) AS count").
		Where("organization_id = ? AND source = ? AND status = ?", organizationID, source, models.StatusPending).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending actions: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ActionType] = row.Count
	}
	return counts, nil
}

// ExecuteStatusUpdate exposes the shared conditional update for callers that
// already hold a transaction handle.
func ExecuteStatusUpdate(tx *gorm.DB, id string, from []string, updates map[string]interface{}) (int64, error) {
	return updateStatus(tx, id, from, updates)
}
