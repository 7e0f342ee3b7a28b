package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/domain"
	"github.com/speedlink/backend/pkg/utils"
)

// SpatialService restricts the day+period aggregation to links whose
// geometry intersects a bounding box.
type SpatialService struct {
	repo SpeedRepository
}

// NewSpatialService creates a new spatial filter service
func NewSpatialService(repo SpeedRepository) *SpatialService {
	return &SpatialService{repo: repo}
}

// FilterByBounds validates the request, then aggregates speeds for links
// intersecting the bbox. Links without matching records for the day and
// period are excluded even when their geometry intersects.
func (s *SpatialService) FilterByBounds(ctx context.Context, req domain.SpatialFilterRequest) (*domain.SpatialFilterResult, error) {
	day, err := domain.ResolveDay(req.Day)
	if err != nil {
		return nil, err
	}
	period, err := domain.ResolvePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	if err := validateBbox(req.Bbox); err != nil {
		return nil, err
	}

	rows, err := s.repo.AggregateInBounds(ctx, day, period, domain.BoundFromBbox(req.Bbox))
	if err != nil {
		return nil, err
	}

	result := domain.SpatialFilterResult{
		DayOfWeek: day,
		Period:    period,
		Bbox:      req.Bbox,
		Count:     len(rows),
		Links:     make([]domain.LinkFeature, 0, len(rows)),
	}
	for _, row := range rows {
		result.Links = append(result.Links, domain.LinkFeature{
			LinkID:   row.LinkID,
			RoadName: row.RoadName,
			AvgSpeed: utils.RoundTo(row.AvgSpeed, 2),
			Geometry: row.Geometry,
		})
	}

	log.Debug().
		Int("day", day).Int("period", period).
		Floats64("bbox", req.Bbox).Int("links", len(rows)).
		Msg("computed spatial filter")

	return &result, nil
}

// validateBbox checks [minLon, minLat, maxLon, maxLat] for shape, range
// and ordering.
func validateBbox(bbox []float64) error {
	if len(bbox) != 4 {
		return fmt.Errorf("%w: bbox must contain exactly 4 coordinates [minLon, minLat, maxLon, maxLat]", domain.ErrInvalidParameter)
	}
	minLon, minLat, maxLon, maxLat := bbox[0], bbox[1], bbox[2], bbox[3]
	if minLon < -180 || minLon > 180 || maxLon < -180 || maxLon > 180 {
		return fmt.Errorf("%w: longitude values must be between -180 and 180", domain.ErrInvalidParameter)
	}
	if minLat < -90 || minLat > 90 || maxLat < -90 || maxLat > 90 {
		return fmt.Errorf("%w: latitude values must be between -90 and 90", domain.ErrInvalidParameter)
	}
	if minLon >= maxLon {
		return fmt.Errorf("%w: minLon must be less than maxLon", domain.ErrInvalidParameter)
	}
	if minLat >= maxLat {
		return fmt.Errorf("%w: minLat must be less than maxLat", domain.ErrInvalidParameter)
	}
	return nil
}
