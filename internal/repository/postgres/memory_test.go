package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedlink/backend/internal/domain"
)

func testRepo() *MemoryRepository {
	links := []domain.Link{
		{LinkID: 5, Geometry: geojson.NewGeometry(orb.LineString{{-81.75, 30.2}, {-81.7, 30.2}})},
		{LinkID: 1, Geometry: geojson.NewGeometry(orb.LineString{{-81.9, 30.5}, {-81.85, 30.5}})},
	}
	records := []domain.SpeedRecord{
		{LinkID: 5, AverageSpeed: 20, DayOfWeek: 2, Period: 4},
		{LinkID: 5, AverageSpeed: 40, DayOfWeek: 2, Period: 4},
		{LinkID: 1, AverageSpeed: 55, DayOfWeek: 2, Period: 4},
	}
	return NewMemoryRepository(links, records)
}

func TestMemoryAggregateOrdering(t *testing.T) {
	repo := testRepo()

	rows, err := repo.AggregateByDayPeriod(context.Background(), 2, 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].LinkID)
	assert.Equal(t, int64(5), rows[1].LinkID)
	assert.InDelta(t, 30.0, rows[1].AvgSpeed, 1e-9)
	assert.Equal(t, int64(2), rows[1].RecordCount)
}

func TestMemoryAggregateInBounds(t *testing.T) {
	repo := testRepo()
	bound := domain.BoundFromBbox([]float64{-81.8, 30.1, -81.6, 30.3})

	rows, err := repo.AggregateInBounds(context.Background(), 2, 4, bound)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0].LinkID)
}

func TestMemoryAggregateForLinkNotFound(t *testing.T) {
	repo := testRepo()

	_, err := repo.AggregateForLink(context.Background(), 404, 2, 4)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDemoRepositoryServesData(t *testing.T) {
	repo := NewDemoRepository()

	rows, err := repo.AggregateByDayPeriod(context.Background(), 3, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)

	require.NoError(t, repo.Health(context.Background()))
}
