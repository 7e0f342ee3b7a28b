package service

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedlink/backend/internal/domain"
	"github.com/speedlink/backend/internal/repository/postgres"
)

// patternFixture: for AM Peak (3), link 11 averages below 20 on five days
// (Sunday..Thursday), link 22 on only two (Sunday, Monday).
func patternFixture() *postgres.MemoryRepository {
	slow := "Slow Rd"
	fast := "Fast Rd"
	links := []domain.Link{
		{LinkID: 11, RoadName: &slow, Geometry: lineString(orb.Point{-81.7, 30.2}, orb.Point{-81.69, 30.2})},
		{LinkID: 22, RoadName: &fast, Geometry: lineString(orb.Point{-81.6, 30.3}, orb.Point{-81.59, 30.3})},
	}
	var records []domain.SpeedRecord
	for day := 1; day <= 7; day++ {
		speedA, speedB := 15.0, 30.0
		if day > 5 {
			speedA = 25.0
		}
		if day <= 2 {
			speedB = 18.0
		}
		// two records per day so the per-day average is what gets compared
		records = append(records,
			domain.SpeedRecord{LinkID: 11, AverageSpeed: speedA - 1, DayOfWeek: day, Period: 3},
			domain.SpeedRecord{LinkID: 11, AverageSpeed: speedA + 1, DayOfWeek: day, Period: 3},
			domain.SpeedRecord{LinkID: 22, AverageSpeed: speedB - 1, DayOfWeek: day, Period: 3},
			domain.SpeedRecord{LinkID: 22, AverageSpeed: speedB + 1, DayOfWeek: day, Period: 3},
		)
	}
	return postgres.NewMemoryRepository(links, records)
}

func TestSlowLinksMinDaysFilter(t *testing.T) {
	svc := NewPatternService(patternFixture())

	links, err := svc.SlowLinks(context.Background(), "AM Peak", 20.0, 4)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, int64(11), links[0].LinkID)
	assert.Equal(t, 5, links[0].DaysBelowThreshold)
}

func TestSlowLinksIncludesBothWithLowMinDays(t *testing.T) {
	svc := NewPatternService(patternFixture())

	links, err := svc.SlowLinks(context.Background(), "3", 20.0, 2)
	require.NoError(t, err)

	require.Len(t, links, 2)
	// deterministic ascending link_id
	assert.Equal(t, int64(11), links[0].LinkID)
	assert.Equal(t, int64(22), links[1].LinkID)
	assert.Equal(t, 2, links[1].DaysBelowThreshold)
}

func TestSlowLinksThresholdIsStrict(t *testing.T) {
	svc := NewPatternService(patternFixture())

	// link 22 averages exactly 18 on two days; 18 < 18 is false
	links, err := svc.SlowLinks(context.Background(), "AM Peak", 18.0, 1)
	require.NoError(t, err)

	require.Len(t, links, 1)
	assert.Equal(t, int64(11), links[0].LinkID)
}

func TestSlowLinksInvalidInputSkipsQuery(t *testing.T) {
	repo := &countingRepo{SpeedRepository: patternFixture()}
	svc := NewPatternService(repo)

	tests := []struct {
		name      string
		period    string
		threshold float64
		minDays   int
	}{
		{"min_days zero", "AM Peak", 20.0, 0},
		{"min_days eight", "AM Peak", 20.0, 8},
		{"negative threshold", "AM Peak", -5.0, 3},
		{"zero threshold", "AM Peak", 0, 3},
		{"unknown period", "Rush Hour", 20.0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SlowLinks(context.Background(), tt.period, tt.threshold, tt.minDays)
			assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
		})
	}
	assert.Equal(t, 0, repo.calls, "invalid input must not reach the repository")
}
