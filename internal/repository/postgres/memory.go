package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geojson"

	"github.com/speedlink/backend/internal/domain"
)

// MemoryRepository implements domain.SpeedRepository in memory. It backs
// demo mode when no database is reachable and serves as the test double;
// unlike a stub it runs the same aggregation semantics as the SQL layer.
type MemoryRepository struct {
	links   map[int64]domain.Link
	records []domain.SpeedRecord
}

// NewMemoryRepository creates a repository over the given fixture data.
func NewMemoryRepository(links []domain.Link, records []domain.SpeedRecord) *MemoryRepository {
	byID := make(map[int64]domain.Link, len(links))
	for _, l := range links {
		byID[l.LinkID] = l
	}
	return &MemoryRepository{links: byID, records: records}
}

// NewDemoRepository seeds a small Jacksonville-area dataset so the API can
// run without a database.
func NewDemoRepository() *MemoryRepository {
	roadA := "Atlantic Blvd"
	roadB := "Beach Blvd"
	links := []domain.Link{
		{
			LinkID:   1148855686,
			RoadName: &roadA,
			Geometry: geojson.NewGeometry(orb.LineString{
				{-81.72, 30.21}, {-81.70, 30.22}, {-81.68, 30.22},
			}),
		},
		{
			LinkID:   1240632857,
			RoadName: &roadB,
			Geometry: geojson.NewGeometry(orb.LineString{
				{-81.55, 30.28}, {-81.53, 30.29},
			}),
		},
	}

	var records []domain.SpeedRecord
	for day := 1; day <= 7; day++ {
		for period := 1; period <= 7; period++ {
			records = append(records,
				domain.SpeedRecord{LinkID: 1148855686, AverageSpeed: 28.5, DayOfWeek: day, Period: period},
				domain.SpeedRecord{LinkID: 1148855686, AverageSpeed: 31.0, DayOfWeek: day, Period: period},
				domain.SpeedRecord{LinkID: 1240632857, AverageSpeed: 44.0, DayOfWeek: day, Period: period},
			)
		}
	}
	return NewMemoryRepository(links, records)
}

// AggregateByDayPeriod computes per-link averages over the fixture records.
func (r *MemoryRepository) AggregateByDayPeriod(ctx context.Context, day, period int) ([]domain.LinkSpeed, error) {
	return r.aggregate(day, period, nil)
}

// AggregateForLink mirrors the SQL LEFT JOIN: a missing link is ErrNotFound,
// a link without matching records reports zero count and nil average.
func (r *MemoryRepository) AggregateForLink(ctx context.Context, linkID int64, day, period int) (*domain.LinkPeriodStats, error) {
	link, ok := r.links[linkID]
	if !ok {
		return nil, fmt.Errorf("link %d: %w", linkID, domain.ErrNotFound)
	}

	stats := domain.LinkPeriodStats{
		LinkID:    link.LinkID,
		RoadName:  link.RoadName,
		DayOfWeek: day,
		Period:    period,
		Geometry:  link.Geometry,
	}
	var sum float64
	for _, rec := range r.records {
		if rec.LinkID == linkID && rec.DayOfWeek == day && rec.Period == period {
			sum += rec.AverageSpeed
			stats.RecordCount++
		}
	}
	if stats.RecordCount > 0 {
		avg := sum / float64(stats.RecordCount)
		stats.AvgSpeed = &avg
	}
	return &stats, nil
}

// SlowLinks counts days of the week whose per-day average for the period is
// strictly below the threshold.
func (r *MemoryRepository) SlowLinks(ctx context.Context, period int, threshold float64, minDays int) ([]domain.SlowLink, error) {
	type bucket struct {
		sum   float64
		count int
	}
	daily := map[int64]map[int]*bucket{}
	for _, rec := range r.records {
		if rec.Period != period {
			continue
		}
		days, ok := daily[rec.LinkID]
		if !ok {
			days = map[int]*bucket{}
			daily[rec.LinkID] = days
		}
		b, ok := days[rec.DayOfWeek]
		if !ok {
			b = &bucket{}
			days[rec.DayOfWeek] = b
		}
		b.sum += rec.AverageSpeed
		b.count++
	}

	results := []domain.SlowLink{}
	for linkID, days := range daily {
		below := 0
		for _, b := range days {
			if b.sum/float64(b.count) < threshold {
				below++
			}
		}
		if below < minDays {
			continue
		}
		link, ok := r.links[linkID]
		if !ok {
			continue
		}
		results = append(results, domain.SlowLink{
			LinkID:             linkID,
			RoadName:           link.RoadName,
			DaysBelowThreshold: below,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].LinkID < results[j].LinkID })

	return results, nil
}

// AggregateInBounds filters the aggregation to links intersecting the bound.
func (r *MemoryRepository) AggregateInBounds(ctx context.Context, day, period int, bound orb.Bound) ([]domain.LinkSpeed, error) {
	return r.aggregate(day, period, func(link domain.Link) bool {
		if link.Geometry == nil {
			return false
		}
		return clip.Geometry(bound, link.Geometry.Geometry()) != nil
	})
}

// Health always succeeds in memory mode.
func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) aggregate(day, period int, keep func(domain.Link) bool) ([]domain.LinkSpeed, error) {
	type bucket struct {
		sum   float64
		count int64
	}
	byLink := map[int64]*bucket{}
	for _, rec := range r.records {
		if rec.DayOfWeek != day || rec.Period != period {
			continue
		}
		b, ok := byLink[rec.LinkID]
		if !ok {
			b = &bucket{}
			byLink[rec.LinkID] = b
		}
		b.sum += rec.AverageSpeed
		b.count++
	}

	results := []domain.LinkSpeed{}
	for linkID, b := range byLink {
		link, ok := r.links[linkID]
		if !ok {
			continue
		}
		if keep != nil && !keep(link) {
			continue
		}
		results = append(results, domain.LinkSpeed{
			LinkID:      linkID,
			RoadName:    link.RoadName,
			AvgSpeed:    b.sum / float64(b.count),
			RecordCount: b.count,
			Geometry:    link.Geometry,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].LinkID < results[j].LinkID })

	return results, nil
}
