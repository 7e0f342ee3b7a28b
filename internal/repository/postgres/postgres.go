package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/speedlink/backend/internal/domain"
)

// PostgresRepository implements domain.SpeedRepository over PostGIS
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// AggregateByDayPeriod computes the per-link mean speed for one day+period.
func (r *PostgresRepository) AggregateByDayPeriod(ctx context.Context, day, period int) ([]domain.LinkSpeed, error) {
	query := `
		SELECT l.link_id, l.road_name,
		       AVG(s.average_speed)::float8, COUNT(*),
		       ST_AsGeoJSON(l.geometry)
		FROM speed_record s
		JOIN link l ON l.link_id = s.link_id
		WHERE s.day_of_week = $1 AND s.period = $2
		GROUP BY l.link_id, l.road_name, l.geometry
		ORDER BY l.link_id
	`

	rows, err := r.pool.Query(ctx, query, day, period)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query aggregates: %w", err)
	}
	defer rows.Close()

	return scanLinkSpeeds(rows)
}

// AggregateForLink computes the aggregate for a single link. The LEFT JOIN
// keeps the link row even without matching records, so an absent row means
// the link itself does not exist.
func (r *PostgresRepository) AggregateForLink(ctx context.Context, linkID int64, day, period int) (*domain.LinkPeriodStats, error) {
	query := `
		SELECT l.link_id, l.road_name,
		       AVG(s.average_speed)::float8, COUNT(s.average_speed),
		       ST_AsGeoJSON(l.geometry)
		FROM link l
		LEFT JOIN speed_record s
		  ON s.link_id = l.link_id AND s.day_of_week = $2 AND s.period = $3
		WHERE l.link_id = $1
		GROUP BY l.link_id, l.road_name, l.geometry
	`

	stats := domain.LinkPeriodStats{DayOfWeek: day, Period: period}
	var geomJSON *string
	err := r.pool.QueryRow(ctx, query, linkID, day, period).Scan(
		&stats.LinkID, &stats.RoadName, &stats.AvgSpeed, &stats.RecordCount, &geomJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("link %d: %w", linkID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query link aggregate: %w", err)
	}

	if stats.Geometry, err = decodeGeometry(geomJSON); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SlowLinks counts, per link, the days of the week whose average speed for
// the period falls strictly below the threshold.
func (r *PostgresRepository) SlowLinks(ctx context.Context, period int, threshold float64, minDays int) ([]domain.SlowLink, error) {
	query := `
		SELECT d.link_id, l.road_name, COUNT(*)::int
		FROM (
			SELECT link_id, day_of_week, AVG(average_speed)::float8 AS day_avg
			FROM speed_record
			WHERE period = $1
			GROUP BY link_id, day_of_week
		) d
		JOIN link l ON l.link_id = d.link_id
		WHERE d.day_avg < $2
		GROUP BY d.link_id, l.road_name
		HAVING COUNT(*) >= $3
		ORDER BY d.link_id
	`

	rows, err := r.pool.Query(ctx, query, period, threshold, minDays)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query slow links: %w", err)
	}
	defer rows.Close()

	results := []domain.SlowLink{}
	for rows.Next() {
		var s domain.SlowLink
		if err := rows.Scan(&s.LinkID, &s.RoadName, &s.DaysBelowThreshold); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan slow link row: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: slow link rows: %w", err)
	}

	return results, nil
}

// AggregateInBounds restricts the aggregation to links intersecting the
// bound. The envelope is built in the stored SRID; no reprojection happens.
func (r *PostgresRepository) AggregateInBounds(ctx context.Context, day, period int, bound orb.Bound) ([]domain.LinkSpeed, error) {
	query := `
		SELECT l.link_id, l.road_name,
		       AVG(s.average_speed)::float8, COUNT(*),
		       ST_AsGeoJSON(l.geometry)
		FROM speed_record s
		JOIN link l ON l.link_id = s.link_id
		WHERE s.day_of_week = $1 AND s.period = $2
		  AND ST_Intersects(l.geometry, ST_MakeEnvelope($3, $4, $5, $6, 4326))
		GROUP BY l.link_id, l.road_name, l.geometry
		ORDER BY l.link_id
	`

	rows, err := r.pool.Query(ctx, query, day, period,
		bound.Min[0], bound.Min[1], bound.Max[0], bound.Max[1])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query spatial aggregates: %w", err)
	}
	defer rows.Close()

	return scanLinkSpeeds(rows)
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func scanLinkSpeeds(rows pgx.Rows) ([]domain.LinkSpeed, error) {
	results := []domain.LinkSpeed{}
	for rows.Next() {
		var (
			ls       domain.LinkSpeed
			geomJSON *string
		)
		err := rows.Scan(&ls.LinkID, &ls.RoadName, &ls.AvgSpeed, &ls.RecordCount, &geomJSON)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan aggregate row: %w", err)
		}
		if ls.Geometry, err = decodeGeometry(geomJSON); err != nil {
			return nil, err
		}
		results = append(results, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: aggregate rows: %w", err)
	}

	return results, nil
}

func decodeGeometry(geomJSON *string) (*geojson.Geometry, error) {
	if geomJSON == nil {
		return nil, nil
	}
	geom, err := geojson.UnmarshalGeometry([]byte(*geomJSON))
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to decode link geometry: %w", err)
	}
	return geom, nil
}
