package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/domain"
	"github.com/speedlink/backend/pkg/utils"
)

// AggregateService computes per-link and overall speed averages for one
// day-of-week and time period.
type AggregateService struct {
	repo SpeedRepository
}

// NewAggregateService creates a new aggregate service
func NewAggregateService(repo SpeedRepository) *AggregateService {
	return &AggregateService{repo: repo}
}

// Aggregate resolves the day and period names, fetches per-link averages
// and derives the overall record-weighted mean. The overall figure is the
// mean over all matching records, not the mean of per-link means, so links
// with more records weigh more.
func (s *AggregateService) Aggregate(ctx context.Context, dayName, periodName string) (*domain.AggregateResult, error) {
	day, err := domain.ResolveDay(dayName)
	if err != nil {
		return nil, err
	}
	period, err := domain.ResolvePeriod(periodName)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.AggregateByDayPeriod(ctx, day, period)
	if err != nil {
		return nil, err
	}

	result := domain.AggregateResult{
		DayOfWeek: day,
		Period:    period,
		Links:     make([]domain.LinkFeature, 0, len(rows)),
	}
	var (
		speedSum    float64
		recordCount int64
	)
	for _, row := range rows {
		speedSum += row.AvgSpeed * float64(row.RecordCount)
		recordCount += row.RecordCount
		result.Links = append(result.Links, domain.LinkFeature{
			LinkID:   row.LinkID,
			RoadName: row.RoadName,
			AvgSpeed: utils.RoundTo(row.AvgSpeed, 2),
			Geometry: row.Geometry,
		})
	}
	result.Overall.LinkCount = len(rows)
	if recordCount > 0 {
		result.Overall.AvgSpeed = utils.RoundTo(speedSum/float64(recordCount), 2)
	}

	log.Debug().
		Int("day", day).Int("period", period).
		Int("links", len(rows)).Int64("records", recordCount).
		Msg("computed aggregate")

	return &result, nil
}

// AggregateForLink returns the aggregate for a single link. An unknown
// link id yields ErrNotFound; a known link without matching records comes
// back with record_count 0 and a null average.
func (s *AggregateService) AggregateForLink(ctx context.Context, linkID int64, dayName, periodName string) (*domain.LinkPeriodStats, error) {
	day, err := domain.ResolveDay(dayName)
	if err != nil {
		return nil, err
	}
	period, err := domain.ResolvePeriod(periodName)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.AggregateForLink(ctx, linkID, day, period)
	if err != nil {
		return nil, err
	}
	if stats.AvgSpeed != nil {
		rounded := utils.RoundTo(*stats.AvgSpeed, 2)
		stats.AvgSpeed = &rounded
	}
	return stats, nil
}

// ParseLinkID parses a link id path segment.
func ParseLinkID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid link id %q", domain.ErrInvalidParameter, raw)
	}
	return id, nil
}
