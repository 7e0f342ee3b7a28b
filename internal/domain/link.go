package domain

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Link is a road segment with a stable identifier and line geometry.
// Created by ingestion, immutable afterwards.
type Link struct {
	LinkID   int64             `json:"link_id"`
	RoadName *string           `json:"road_name"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// SpeedRecord is one measured speed interval for a link. The day and
// period codes are derived at ingestion time; the API trusts stored values.
type SpeedRecord struct {
	LinkID       int64     `json:"link_id"`
	DateTime     time.Time `json:"date_time"`
	AverageSpeed float64   `json:"average_speed"`
	DayOfWeek    int       `json:"day_of_week"`
	Period       int       `json:"period"`
}

// LinkSpeed is one row of a per-link aggregation: the mean measured speed
// and the number of records contributing to it.
type LinkSpeed struct {
	LinkID      int64             `json:"link_id"`
	RoadName    *string           `json:"road_name"`
	AvgSpeed    float64           `json:"avg_speed"`
	RecordCount int64             `json:"record_count"`
	Geometry    *geojson.Geometry `json:"geometry"`
}

// LinkPeriodStats carries the single-link aggregate. AvgSpeed is nil when
// the link exists but has no matching records, which is distinct from the
// link not existing at all.
type LinkPeriodStats struct {
	LinkID      int64             `json:"link_id"`
	RoadName    *string           `json:"road_name"`
	DayOfWeek   int               `json:"day_of_week"`
	Period      int               `json:"period"`
	AvgSpeed    *float64          `json:"avg_speed"`
	RecordCount int64             `json:"record_count"`
	Geometry    *geojson.Geometry `json:"geometry"`
}

// SlowLink is a link whose per-day average speed fell below a threshold
// on a number of distinct days of the week.
type SlowLink struct {
	LinkID             int64   `json:"link_id"`
	RoadName           *string `json:"road_name"`
	DaysBelowThreshold int     `json:"days_below_threshold"`
}

// LinkFeature is the response shape for one aggregated link.
type LinkFeature struct {
	LinkID   int64             `json:"link_id"`
	RoadName *string           `json:"road_name"`
	AvgSpeed float64           `json:"avg_speed"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// AggregateSummary holds the record-weighted overall statistics.
type AggregateSummary struct {
	AvgSpeed  float64 `json:"avg_speed"`
	LinkCount int     `json:"link_count"`
}

// AggregateResult is the response for the day+period aggregation.
type AggregateResult struct {
	DayOfWeek int              `json:"day_of_week"`
	Period    int              `json:"period"`
	Overall   AggregateSummary `json:"overall"`
	Links     []LinkFeature    `json:"links"`
}

// SpatialFilterRequest is the body of the spatial filter endpoint.
// Bbox is [minLon, minLat, maxLon, maxLat] in the stored CRS.
type SpatialFilterRequest struct {
	Day    string    `json:"day"`
	Period string    `json:"period"`
	Bbox   []float64 `json:"bbox"`
}

// SpatialFilterResult is the response for the spatial filter endpoint.
type SpatialFilterResult struct {
	DayOfWeek int           `json:"day_of_week"`
	Period    int           `json:"period"`
	Bbox      []float64     `json:"bbox"`
	Count     int           `json:"count"`
	Links     []LinkFeature `json:"links"`
}

// BoundFromBbox converts a validated bbox slice to an orb.Bound.
func BoundFromBbox(bbox []float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{bbox[0], bbox[1]},
		Max: orb.Point{bbox[2], bbox[3]},
	}
}
