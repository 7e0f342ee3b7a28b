package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/speedlink/backend/internal/config"
	"github.com/speedlink/backend/internal/domain"
	"github.com/speedlink/backend/pkg/logger"
)

// Loader for the two ingestion inputs:
//   - links CSV with columns link_id, road_name, geo_json (GeoJSON geometry)
//   - speed records CSV with columns link_id, date_time, average_speed
//
// Day-of-week and period codes are derived from date_time at load time, so
// the API layer can trust the stored values.

const schema = `
CREATE EXTENSION IF NOT EXISTS postgis;

CREATE TABLE IF NOT EXISTS link (
	link_id   BIGINT PRIMARY KEY,
	road_name TEXT,
	geometry  geometry(GEOMETRY, 4326)
);
CREATE INDEX IF NOT EXISTS idx_link_geometry ON link USING GIST (geometry);

CREATE TABLE IF NOT EXISTS speed_record (
	link_id       BIGINT NOT NULL REFERENCES link(link_id) ON DELETE CASCADE,
	date_time     TIMESTAMP NOT NULL,
	average_speed DOUBLE PRECISION NOT NULL,
	day_of_week   INT NOT NULL,
	period        INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_speed_record_day_period ON speed_record (day_of_week, period);
CREATE INDEX IF NOT EXISTS idx_speed_record_link ON speed_record (link_id);
`

func main() {
	linksPath := flag.String("links", "", "path to links CSV (link_id, road_name, geo_json)")
	speedsPath := flag.String("speeds", "", "path to speed records CSV (link_id, date_time, average_speed)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment())

	if *linksPath == "" && *speedsPath == "" {
		log.Fatal().Msg("nothing to do: pass -links and/or -speeds")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to database")
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schema); err != nil {
		log.Fatal().Err(err).Msg("could not create schema")
	}

	if *linksPath != "" {
		n, err := loadLinks(ctx, conn, *linksPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", *linksPath).Msg("link load failed")
		}
		log.Info().Int("links", n).Msg("links loaded")
	}

	if *speedsPath != "" {
		n, err := loadSpeedRecords(ctx, conn, *speedsPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", *speedsPath).Msg("speed record load failed")
		}
		log.Info().Int64("records", n).Msg("speed records loaded")
	}
}

// loadLinks upserts link rows, converting the geo_json column through
// ST_GeomFromGeoJSON so PostGIS validates the geometry.
func loadLinks(ctx context.Context, conn *pgx.Conn, path string) (int, error) {
	rows, err := readCSV(path, []string{"link_id", "road_name", "geo_json"})
	if err != nil {
		return 0, err
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		linkID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad link_id %q: %w", row[0], err)
		}
		var roadName *string
		if row[1] != "" {
			roadName = &row[1]
		}
		batch.Queue(`
			INSERT INTO link (link_id, road_name, geometry)
			VALUES ($1, $2, ST_SetSRID(ST_GeomFromGeoJSON($3), 4326))
			ON CONFLICT (link_id) DO NOTHING
		`, linkID, roadName, row[2])
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("link insert failed: %w", err)
		}
	}
	return len(rows), nil
}

// loadSpeedRecords bulk-copies speed rows, deriving the day and period
// codes from each timestamp.
func loadSpeedRecords(ctx context.Context, conn *pgx.Conn, path string) (int64, error) {
	rows, err := readCSV(path, []string{"link_id", "date_time", "average_speed"})
	if err != nil {
		return 0, err
	}

	copyRows := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		linkID, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad link_id %q: %w", row[0], err)
		}
		ts, err := parseTimestamp(row[1])
		if err != nil {
			return 0, err
		}
		speed, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return 0, fmt.Errorf("bad average_speed %q: %w", row[2], err)
		}
		copyRows = append(copyRows, []interface{}{
			linkID, ts, speed, domain.DayCodeForTime(ts), domain.PeriodForTime(ts),
		})
	}

	return conn.CopyFrom(ctx,
		pgx.Identifier{"speed_record"},
		[]string{"link_id", "date_time", "average_speed", "day_of_week", "period"},
		pgx.CopyFromRows(copyRows),
	)
}

// readCSV reads all data rows, reordering columns to the wanted header names.
func readCSV(path string, want []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header of %s: %w", path, err)
	}

	index := make([]int, len(want))
	for i, name := range want {
		index[i] = -1
		for j, col := range header {
			if col == name {
				index[i] = j
				break
			}
		}
		if index[i] == -1 {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row := make([]string, len(want))
		for i, j := range index {
			row[i] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date_time %q", raw)
}
