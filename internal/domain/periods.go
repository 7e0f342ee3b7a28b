package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dayCodes maps lowercase weekday names to their stored code (Sunday = 1)
var dayCodes = map[string]int{
	"sunday":    1,
	"monday":    2,
	"tuesday":   3,
	"wednesday": 4,
	"thursday":  5,
	"friday":    6,
	"saturday":  7,
}

// periodCodes maps lowercase period labels to their stored code
var periodCodes = map[string]int{
	"overnight":       1,
	"early morning":   2,
	"am peak":         3,
	"midday":          4,
	"early afternoon": 5,
	"pm peak":         6,
	"evening":         7,
}

// PeriodWindow is one bucket of the fixed time-of-day schedule.
// Start is inclusive, End exclusive, both in minutes since midnight.
type PeriodWindow struct {
	Code  int
	Label string
	Start int
	End   int
}

// PeriodSchedule partitions the 24-hour day into 7 contiguous buckets.
var PeriodSchedule = [7]PeriodWindow{
	{1, "Overnight", 0, 240},
	{2, "Early Morning", 240, 420},
	{3, "AM Peak", 420, 600},
	{4, "Midday", 600, 780},
	{5, "Early Afternoon", 780, 960},
	{6, "PM Peak", 960, 1140},
	{7, "Evening", 1140, 1440},
}

// ResolveDay converts a full weekday name (case-insensitive) to its code.
func ResolveDay(name string) (int, error) {
	code, ok := dayCodes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown day %q", ErrInvalidParameter, name)
	}
	return code, nil
}

// ResolvePeriod converts a period label (case-insensitive) or a numeric
// index "1".."7" to its code.
func ResolvePeriod(value string) (int, error) {
	v := strings.TrimSpace(value)
	if code, ok := periodCodes[strings.ToLower(v)]; ok {
		return code, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		if n >= 1 && n <= 7 {
			return n, nil
		}
		return 0, fmt.Errorf("%w: period index %d out of range 1-7", ErrInvalidParameter, n)
	}
	return 0, fmt.Errorf("%w: unknown period %q", ErrInvalidParameter, value)
}

// PeriodLabel returns the label for a period code.
func PeriodLabel(code int) (string, error) {
	if code < 1 || code > 7 {
		return "", fmt.Errorf("%w: period code %d out of range 1-7", ErrInvalidParameter, code)
	}
	return PeriodSchedule[code-1].Label, nil
}

// PeriodForTime maps a timestamp's clock time to its schedule bucket.
func PeriodForTime(t time.Time) int {
	minute := t.Hour()*60 + t.Minute()
	for _, w := range PeriodSchedule {
		if minute >= w.Start && minute < w.End {
			return w.Code
		}
	}
	// unreachable: the schedule covers every minute
	return PeriodSchedule[len(PeriodSchedule)-1].Code
}

// DayCodeForTime returns the stored day code (Sunday = 1) for a timestamp.
func DayCodeForTime(t time.Time) int {
	return int(t.Weekday()) + 1
}
