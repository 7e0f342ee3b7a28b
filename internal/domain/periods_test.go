package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodSchedulePartitionsTheDay(t *testing.T) {
	// every minute of the day must map to exactly one bucket
	for minute := 0; minute < 1440; minute++ {
		matches := 0
		for _, w := range PeriodSchedule {
			if minute >= w.Start && minute < w.End {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "minute %d should fall in exactly one period", minute)
	}
}

func TestPeriodScheduleIsContiguous(t *testing.T) {
	assert.Equal(t, 0, PeriodSchedule[0].Start)
	assert.Equal(t, 1440, PeriodSchedule[len(PeriodSchedule)-1].End)
	for i := 1; i < len(PeriodSchedule); i++ {
		assert.Equal(t, PeriodSchedule[i-1].End, PeriodSchedule[i].Start,
			"bucket %d should start where bucket %d ends", i+1, i)
		assert.Equal(t, i+1, PeriodSchedule[i].Code)
	}
}

func TestResolveDay(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Sunday", 1},
		{"monday", 2},
		{"TUESDAY", 3},
		{"Wednesday", 4},
		{"thursday", 5},
		{"Friday", 6},
		{" Saturday ", 7},
	}
	for _, tt := range tests {
		code, err := ResolveDay(tt.name)
		require.NoError(t, err, "day %q", tt.name)
		assert.Equal(t, tt.want, code)
	}
}

func TestResolveDayUnknown(t *testing.T) {
	for _, name := range []string{"Mon", "Funday", "", "8"} {
		_, err := ResolveDay(name)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "day %q should be invalid", name)
	}
}

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"Overnight", 1},
		{"early morning", 2},
		{"AM Peak", 3},
		{"am peak", 3},
		{"Midday", 4},
		{"Early Afternoon", 5},
		{"PM PEAK", 6},
		{"Evening", 7},
		{"1", 1},
		{"7", 7},
	}
	for _, tt := range tests {
		code, err := ResolvePeriod(tt.value)
		require.NoError(t, err, "period %q", tt.value)
		assert.Equal(t, tt.want, code)
	}
}

func TestResolvePeriodInvalid(t *testing.T) {
	for _, value := range []string{"0", "8", "Lunchtime", "", "3.5"} {
		_, err := ResolvePeriod(value)
		assert.True(t, errors.Is(err, ErrInvalidParameter), "period %q should be invalid", value)
	}
}

func TestPeriodForTimeBoundaries(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"00:00", 1},
		{"03:59", 1},
		{"04:00", 2},
		{"06:59", 2},
		{"07:00", 3},
		{"09:59", 3},
		{"10:00", 4},
		{"12:59", 4},
		{"13:00", 5},
		{"15:59", 5},
		{"16:00", 6},
		{"18:59", 6},
		{"19:00", 7},
		{"23:59", 7},
	}
	for _, tt := range tests {
		ts, err := time.Parse("2006-01-02 15:04", "2024-01-02 "+tt.clock)
		require.NoError(t, err)
		assert.Equal(t, tt.want, PeriodForTime(ts), "clock %s", tt.clock)
	}
}

func TestDayCodeForTime(t *testing.T) {
	// 2024-01-07 was a Sunday
	sunday := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)
	for offset := 0; offset < 7; offset++ {
		ts := sunday.AddDate(0, 0, offset)
		assert.Equal(t, offset+1, DayCodeForTime(ts))
	}
}

func TestPeriodLabel(t *testing.T) {
	label, err := PeriodLabel(3)
	require.NoError(t, err)
	assert.Equal(t, "AM Peak", label)

	_, err = PeriodLabel(8)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
