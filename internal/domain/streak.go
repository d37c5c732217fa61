package domain

import (
	"slices"
	"time"
)

// CurrentStreak counts consecutive satisfied periods ending at the period that
// contains today. A period is satisfied when at least one completion falls on
// one of its calendar days, taken in today's location.
//
// The walk moves the anchor date back by a fixed number of days per step
// (1, 7 or 30). For monthly habits this is not a calendar month, so a step can
// skip a month or revisit one.
func CurrentStreak(f Frequency, completions []Completion, today time.Time) (int, error) {
	c, err := f.cadence()
	if err != nil {
		return 0, err
	}
	if len(completions) == 0 {
		return 0, nil
	}

	loc := today.Location()
	days := completionDays(completions, loc)
	anchor := civilDay(today, loc)

	streak := 0
	for {
		y, m, d := anchor.Date()
		start, end := c.period(y, m, d)
		if !anyWithin(days, dayNumber(start), dayNumber(end)) {
			break
		}
		streak++
		anchor = anchor.AddDate(0, 0, -c.stepDays)
	}
	return streak, nil
}

// LongestStreak returns the longest run of completions where each completion
// lands exactly one step (1, 7 or 30 days) after the previous one. It compares
// completion dates directly and ignores calendar period boundaries; two
// completions on the same day break the run.
func LongestStreak(f Frequency, completions []Completion) (int, error) {
	c, err := f.cadence()
	if err != nil {
		return 0, err
	}
	if len(completions) == 0 {
		return 0, nil
	}

	ordered := slices.Clone(completions)
	slices.SortStableFunc(ordered, func(a, b Completion) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	})

	longest, run := 1, 1
	prev := dayNumber(ordered[0].CompletedAt)
	for _, comp := range ordered[1:] {
		cur := dayNumber(comp.CompletedAt)
		if cur == prev+int64(c.expectDays) {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
		prev = cur
	}
	return longest, nil
}

// IsCompletedInPeriod reports whether any completion instant falls between
// the first and last instant of the period containing now, in now's location.
func IsCompletedInPeriod(f Frequency, completions []Completion, now time.Time) (bool, error) {
	p, err := PeriodFor(now, f)
	if err != nil {
		return false, err
	}
	from, to := p.Instants(now.Location())
	for _, comp := range completions {
		if !comp.CompletedAt.Before(from) && !comp.CompletedAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

// completionDays returns the sorted calendar dates of completions in loc.
func completionDays(completions []Completion, loc *time.Location) []int64 {
	days := make([]int64, len(completions))
	for i, comp := range completions {
		days[i] = dayNumber(comp.CompletedAt.In(loc))
	}
	slices.Sort(days)
	return days
}

func anyWithin(sortedDays []int64, from, to int64) bool {
	i, _ := slices.BinarySearch(sortedDays, from)
	return i < len(sortedDays) && sortedDays[i] <= to
}
