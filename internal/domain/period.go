package domain

import (
	"encoding/json"
	"time"
)

// DayLayout is the calendar date format used across the API.
const DayLayout = "2006-01-02"

// Period is an inclusive range of calendar days. Start and End are midnight
// UTC on those days; use Instants to place the range in a time zone.
type Period struct {
	Start time.Time
	End   time.Time
}

// PeriodFor returns the period of frequency f that contains the calendar date
// of date, taken in date's own location.
func PeriodFor(date time.Time, f Frequency) (Period, error) {
	c, err := f.cadence()
	if err != nil {
		return Period{}, err
	}
	y, m, d := date.Date()
	start, end := c.period(y, m, d)
	return Period{Start: start, End: end}, nil
}

// Contains reports whether the calendar date of t (in t's location) falls
// within p.
func (p Period) Contains(t time.Time) bool {
	n := dayNumber(t)
	return n >= dayNumber(p.Start) && n <= dayNumber(p.End)
}

// Instants returns the first and last instant of p in loc.
func (p Period) Instants(loc *time.Location) (from, to time.Time) {
	from = startOfDay(p.Start, loc)
	to = startOfDay(p.End.AddDate(0, 0, 1), loc).Add(-time.Nanosecond)
	return from, to
}

// startOfDay returns the first instant of the calendar date of day in loc.
// Where a DST transition skips local midnight, that is the transition itself.
func startOfDay(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if dayNumber(t) < dayNumber(day) {
		_, t = t.ZoneBounds()
	}
	return t
}

// Days returns the number of calendar days in p.
func (p Period) Days() int {
	return int(dayNumber(p.End)-dayNumber(p.Start)) + 1
}

// String renders p as "start..end".
func (p Period) String() string {
	return p.Start.Format(DayLayout) + ".." + p.End.Format(DayLayout)
}

// MarshalJSON encodes p as {"start": "YYYY-MM-DD", "end": "YYYY-MM-DD"}.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{p.Start.Format(DayLayout), p.End.Format(DayLayout)})
}

// UnmarshalJSON decodes the form written by MarshalJSON. Dates are parsed
// as midnight UTC.
func (p *Period) UnmarshalJSON(b []byte) error {
	var raw struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	start, err := time.Parse(DayLayout, raw.Start)
	if err != nil {
		return err
	}
	end, err := time.Parse(DayLayout, raw.End)
	if err != nil {
		return err
	}
	*p = Period{Start: start, End: end}
	return nil
}

// dayNumber maps the calendar date of t to a day count since the Unix epoch.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// civilDay returns midnight UTC on the calendar date of t in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
