package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/domain"
)

// PatternService detects links that are recurrently slow within a period.
type PatternService struct {
	repo SpeedRepository
}

// NewPatternService creates a new pattern service
func NewPatternService(repo SpeedRepository) *PatternService {
	return &PatternService{repo: repo}
}

// SlowLinks returns links whose per-day-of-week average speed for the
// period is strictly below threshold on at least minDays distinct days.
// Parameters are validated before any query runs.
func (s *PatternService) SlowLinks(ctx context.Context, periodName string, threshold float64, minDays int) ([]domain.SlowLink, error) {
	period, err := domain.ResolvePeriod(periodName)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be a positive number, got %g", domain.ErrInvalidParameter, threshold)
	}
	if minDays < 1 || minDays > 7 {
		return nil, fmt.Errorf("%w: min_days must be between 1 and 7, got %d", domain.ErrInvalidParameter, minDays)
	}

	links, err := s.repo.SlowLinks(ctx, period, threshold, minDays)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("period", period).Float64("threshold", threshold).Int("min_days", minDays).
		Int("links", len(links)).
		Msg("computed slow links")

	return links, nil
}
