package models

import "time"

// Trust-learning constants. Confidence is a Bayesian-shrinkage estimate so a
// pattern with few observations starts near the neutral midpoint instead of
// 0 or 1.
const (
	SuccessThreshold = 4
	PriorSuccesses   = 2
	PriorTotal       = 4
)

// ActionPattern is the learned trust aggregate for one
// (organization, user, action type) key. Created lazily on first rating,
// mutated additively forever, never deleted.
type ActionPattern struct {
	ID              string     `json:"id" gorm:"primaryKey;column:id;type:varchar(255)"`
	OrganizationID  string     `json:"organization_id" gorm:"column:organization_id;type:varchar(255);not null;uniqueIndex:idx_pattern_key"`
	UserID          string     `json:"user_id" gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:idx_pattern_key"`
	ActionType      string     `json:"action_type" gorm:"column:action_type;type:varchar(50);not null;uniqueIndex:idx_pattern_key"`
	TotalCount      int        `json:"total_count" gorm:"column:total_count;not null;default:0"`
	SuccessCount    int        `json:"success_count" gorm:"column:success_count;not null;default:0"`
	AverageRating   float64    `json:"average_rating" gorm:"column:average_rating;type:double precision;not null;default:0"`
	ConfidenceScore float64    `json:"confidence_score" gorm:"column:confidence_score;type:double precision;not null;default:0.5"`
	LastUsedAt      *time.Time `json:"last_used_at" gorm:"column:last_used_at"`
	Version         int        `json:"version" gorm:"column:version;not null;default:0"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (ActionPattern) TableName() string { return "action_patterns" }

// ShrinkageConfidence derives the confidence score from the two counters.
// The score is never stored independently of its inputs; replaying this
// formula over the counters always reproduces it.
func ShrinkageConfidence(successCount, totalCount int) float64 {
	return float64(successCount+PriorSuccesses) / float64(totalCount+PriorTotal)
}

// NeutralConfidence is the score of a pattern with zero observations.
func NeutralConfidence() float64 {
	return ShrinkageConfidence(0, 0)
}

// Apply returns the pattern state after observing one rating. Pure: the
// receiver is not mutated, so callers can compute the next state and write it
// back with a version-guarded conditional update.
func (p ActionPattern) Apply(rating int, now time.Time) ActionPattern {
	next := p
	next.TotalCount = p.TotalCount + 1
	if rating >= SuccessThreshold {
		next.SuccessCount = p.SuccessCount + 1
	}
	// Incremental mean keeps the running average numerically stable without
	// carrying a raw sum.
	next.AverageRating = p.AverageRating + (float64(rating)-p.AverageRating)/float64(next.TotalCount)
	next.ConfidenceScore = ShrinkageConfidence(next.SuccessCount, next.TotalCount)
	next.LastUsedAt = &now
	next.Version = p.Version + 1
	return next
}
