package domain

import (
	"context"

	"github.com/paulmach/orb"
)

// SpeedRepository defines read access over links and speed records.
// This follows the Dependency Inversion Principle - domain defines the interface
type SpeedRepository interface {
	// AggregateByDayPeriod returns the per-link mean speed and record count
	// for all records matching the day and period codes, ascending link_id.
	// Links with no matching records are absent from the result.
	AggregateByDayPeriod(ctx context.Context, day, period int) ([]LinkSpeed, error)

	// AggregateForLink returns the aggregate for one link. It returns
	// ErrNotFound when the link id is absent from the link table; a link
	// with no matching records comes back with RecordCount 0 and nil AvgSpeed.
	AggregateForLink(ctx context.Context, linkID int64, day, period int) (*LinkPeriodStats, error)

	// SlowLinks returns links whose per-day-of-week average speed for the
	// period is strictly below threshold on at least minDays distinct days,
	// ascending link_id.
	SlowLinks(ctx context.Context, period int, threshold float64, minDays int) ([]SlowLink, error)

	// AggregateInBounds behaves like AggregateByDayPeriod restricted to
	// links whose geometry intersects the bound.
	AggregateInBounds(ctx context.Context, day, period int, bound orb.Bound) ([]LinkSpeed, error)

	// Health checks datastore connectivity.
	Health(ctx context.Context) error
}
