package domain

import (
	"math"
	"time"
)

const (
	// DefaultWindowDays is the success-rate window used when none is given.
	DefaultWindowDays = 7
	// MaxWindowDays caps the success-rate window.
	MaxWindowDays = 366
)

// HabitHistory pairs a habit with all of its completions.
type HabitHistory struct {
	Habit       Habit
	Completions []Completion
}

// SuccessSeries holds one success rate per day, oldest first. Dates and Rates
// always have the same length.
type SuccessSeries struct {
	Dates []string  `json:"dates"`
	Rates []float64 `json:"rates"`
}

// SuccessRates computes, for each of the days calendar days ending at today,
// the percentage of habits whose period containing that day has a completion.
// The habit set is the same for every day of the window. With no habits every
// rate is 0. Rates are rounded to one decimal place.
func SuccessRates(habits []HabitHistory, today time.Time, days int) (SuccessSeries, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if days > MaxWindowDays {
		days = MaxWindowDays
	}

	loc := today.Location()
	type resolved struct {
		c    cadence
		days []int64
	}
	rs := make([]resolved, 0, len(habits))
	for _, h := range habits {
		c, err := h.Habit.Frequency.cadence()
		if err != nil {
			return SuccessSeries{}, err
		}
		rs = append(rs, resolved{c: c, days: completionDays(h.Completions, loc)})
	}

	out := SuccessSeries{
		Dates: make([]string, 0, days),
		Rates: make([]float64, 0, days),
	}
	base := civilDay(today, loc)
	for i := days - 1; i >= 0; i-- {
		day := base.AddDate(0, 0, -i)
		out.Dates = append(out.Dates, day.Format(DayLayout))

		if len(rs) == 0 {
			out.Rates = append(out.Rates, 0)
			continue
		}

		y, m, d := day.Date()
		satisfied := 0
		for _, r := range rs {
			start, end := r.c.period(y, m, d)
			if anyWithin(r.days, dayNumber(start), dayNumber(end)) {
				satisfied++
			}
		}
		out.Rates = append(out.Rates, roundRate(100*float64(satisfied)/float64(len(rs))))
	}
	return out, nil
}

// roundRate rounds to one decimal, halves to even.
func roundRate(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
