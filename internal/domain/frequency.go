package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFrequency is returned when a habit frequency is not one of the
// recognised cadences.
var ErrInvalidFrequency = errors.New("invalid frequency")

// Frequency is the cadence a habit is expected to be performed at.
type Frequency string

// Recognised frequencies.
const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Frequencies lists every frequency in display order.
var Frequencies = []Frequency{Daily, Weekly, Monthly}

// cadence holds the per-frequency behaviour of the analytics engine.
type cadence struct {
	label string
	// period returns the first and last calendar day containing the date,
	// as midnight UTC.
	period func(y int, m time.Month, d int) (start, end time.Time)
	// stepDays is how far CurrentStreak moves the anchor back per period.
	stepDays int
	// expectDays is the gap between consecutive completions in LongestStreak.
	expectDays int
}

var cadences = map[Frequency]cadence{
	Daily: {
		label: "Daily",
		period: func(y int, m time.Month, d int) (time.Time, time.Time) {
			day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			return day, day
		},
		stepDays:   1,
		expectDays: 1,
	},
	Weekly: {
		label: "Weekly",
		period: func(y int, m time.Month, d int) (time.Time, time.Time) {
			day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			// Monday is day 0 of the week.
			offset := (int(day.Weekday()) + 6) % 7
			start := day.AddDate(0, 0, -offset)
			return start, start.AddDate(0, 0, 6)
		},
		stepDays:   7,
		expectDays: 7,
	},
	Monthly: {
		label: "Monthly",
		period: func(y int, m time.Month, _ int) (time.Time, time.Time) {
			return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
		},
		// Approximates a month; does not follow calendar months.
		stepDays:   30,
		expectDays: 30,
	},
}

// ParseFrequency converts s into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if _, ok := cadences[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return f, nil
}

// Valid reports whether f is a recognised frequency.
func (f Frequency) Valid() bool {
	_, ok := cadences[f]
	return ok
}

// Label returns the human-readable name of f, or the raw value if unknown.
func (f Frequency) Label() string {
	if c, ok := cadences[f]; ok {
		return c.label
	}
	return string(f)
}

// SpanDays converts a streak of the given length into an approximate number
// of days (weeks count as 7, months as 30).
func (f Frequency) SpanDays(streak int) (int, error) {
	c, err := f.cadence()
	if err != nil {
		return 0, err
	}
	return streak * c.stepDays, nil
}

func (f Frequency) cadence() (cadence, error) {
	c, ok := cadences[f]
	if !ok {
		return cadence{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
	return c, nil
}
