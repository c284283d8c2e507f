package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/addyhq/addy-backend/internal/models"
	"github.com/addyhq/addy-backend/internal/repositories"
)

// patternRetryLimit bounds the compare-and-swap loop under contention.
const patternRetryLimit = 5

type trustService struct {
	patterns repositories.PatternRepository
	logger   *zap.Logger
}

func NewTrustService(patterns repositories.PatternRepository, logger *zap.Logger) TrustService {
	return &trustService{patterns: patterns, logger: logger}
}

func (s *trustService) RecordRating(ctx context.Context, organizationID, userID, actionType string, rating int) (*models.ActionPattern, error) {
	// Read counters, compute the next state as a pure function, write back
	// guarded by the version. Zero rows means a concurrent rating landed
	// between our read and write; re-read and retry.
	for attempt := 0; attempt < patternRetryLimit; attempt++ {
		p, err := s.patterns.GetOrCreate(ctx, organizationID, userID, actionType)
		if err != nil {
			return nil, err
		}

		next := p.Apply(rating, time.Now())
		n, err := s.patterns.UpdateGuarded(ctx, &next)
		if err != nil {
			return nil, err
		}
		if n == 1 {
			s.logger.Debug("recorded rating",
				zap.String("action_type", actionType),
				zap.Int("rating", rating),
				zap.Int("total_count", next.TotalCount),
				zap.Float64("confidence", next.ConfidenceScore))
			return &next, nil
		}
	}
	return nil, fmt.Errorf("pattern update contention for %s/%s/%s after %d attempts",
		organizationID, userID, actionType, patternRetryLimit)
}

func (s *trustService) Confidence(ctx context.Context, organizationID, userID, actionType string) (float64, error) {
	p, err := s.patterns.Get(ctx, organizationID, userID, actionType)
	if err != nil {
		return 0, err
	}
	if p == nil {
		// Unobserved types sit at the shrinkage prior, rankable but never
		// overconfident.
		return models.NeutralConfidence(), nil
	}
	return p.ConfidenceScore, nil
}
