package domain

import (
	"slices"
	"time"
)

// HabitStats summarises one habit's progress relative to a reference time.
type HabitStats struct {
	Habit               Habit  `json:"habit"`
	Period              Period `json:"period"`
	CompletedThisPeriod bool   `json:"completedThisPeriod"`
	CurrentStreak       int    `json:"currentStreak"`
	LongestStreak       int    `json:"longestStreak"`
	// SpanDays is CurrentStreak expressed in days.
	SpanDays int `json:"spanDays"`
}

// FrequencyGroup is the set of habits sharing a frequency.
type FrequencyGroup struct {
	Frequency Frequency `json:"frequency"`
	Label     string    `json:"label"`
	Habits    []Habit   `json:"habits"`
}

// Dashboard aggregates analytics over all of a user's habits.
type Dashboard struct {
	Today   string           `json:"today"`
	Habits  []Habit          `json:"habits"`
	Groups  []FrequencyGroup `json:"groups"`
	Streaks []HabitStats     `json:"streaks"`
	// LongestSpanDays is the largest current streak across habits, in days.
	LongestSpanDays int           `json:"longestSpanDays"`
	Success         SuccessSeries `json:"success"`
}

// ComputeHabitStats evaluates every streak metric for h at now.
func ComputeHabitStats(h Habit, completions []Completion, now time.Time) (HabitStats, error) {
	p, err := PeriodFor(now, h.Frequency)
	if err != nil {
		return HabitStats{}, err
	}
	done, err := IsCompletedInPeriod(h.Frequency, completions, now)
	if err != nil {
		return HabitStats{}, err
	}
	current, err := CurrentStreak(h.Frequency, completions, now)
	if err != nil {
		return HabitStats{}, err
	}

	// Longest-streak deltas are measured on dates in now's location.
	local := make([]Completion, len(completions))
	for i, c := range completions {
		c.CompletedAt = c.CompletedAt.In(now.Location())
		local[i] = c
	}
	longest, err := LongestStreak(h.Frequency, local)
	if err != nil {
		return HabitStats{}, err
	}

	span, err := h.Frequency.SpanDays(current)
	if err != nil {
		return HabitStats{}, err
	}
	return HabitStats{
		Habit:               h,
		Period:              p,
		CompletedThisPeriod: done,
		CurrentStreak:       current,
		LongestStreak:       longest,
		SpanDays:            span,
	}, nil
}

// GroupByFrequency groups habits by frequency in display order, omitting
// frequencies with no habits. Habit order within a group is preserved.
func GroupByFrequency(habits []Habit) []FrequencyGroup {
	var groups []FrequencyGroup
	for _, f := range Frequencies {
		var hs []Habit
		for _, h := range habits {
			if h.Frequency == f {
				hs = append(hs, h)
			}
		}
		if len(hs) > 0 {
			groups = append(groups, FrequencyGroup{Frequency: f, Label: f.Label(), Habits: hs})
		}
	}
	return groups
}

// BuildDashboard computes the full dashboard for a user's habits at now.
func BuildDashboard(histories []HabitHistory, now time.Time, windowDays int) (Dashboard, error) {
	habits := make([]Habit, 0, len(histories))
	streaks := make([]HabitStats, 0, len(histories))
	longestSpan := 0
	for _, hh := range histories {
		st, err := ComputeHabitStats(hh.Habit, hh.Completions, now)
		if err != nil {
			return Dashboard{}, err
		}
		habits = append(habits, hh.Habit)
		streaks = append(streaks, st)
		longestSpan = max(longestSpan, st.SpanDays)
	}
	slices.SortStableFunc(streaks, func(a, b HabitStats) int {
		return b.CurrentStreak - a.CurrentStreak
	})

	success, err := SuccessRates(histories, now, windowDays)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Today:           now.Format(DayLayout),
		Habits:          habits,
		Groups:          GroupByFrequency(habits),
		Streaks:         streaks,
		LongestSpanDays: longestSpan,
		Success:         success,
	}, nil
}
