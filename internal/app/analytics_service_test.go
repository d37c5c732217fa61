package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"habitstreak/internal/app"
	"habitstreak/internal/domain"
)

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

func seededRepos() (*mockHabitRepo, *mockCompletionRepo) {
	habits := []domain.Habit{
		{ID: 1, UserID: 1, Title: "Read", Frequency: domain.Daily},
		{ID: 2, UserID: 1, Title: "Call home", Frequency: domain.Weekly},
	}
	comps := map[int64][]domain.Completion{
		1: {
			{ID: 1, HabitID: 1, CompletedAt: at(2024, 3, 10)},
			{ID: 2, HabitID: 1, CompletedAt: at(2024, 3, 9)},
			{ID: 3, HabitID: 1, CompletedAt: at(2024, 3, 8)},
		},
		2: {
			{ID: 4, HabitID: 2, CompletedAt: at(2024, 3, 4)},
		},
	}
	hr := &mockHabitRepo{
		getFn: func(_ context.Context, _, id int64) (*domain.Habit, error) {
			for _, h := range habits {
				if h.ID == id {
					return &h, nil
				}
			}
			return nil, domain.ErrHabitNotFound
		},
		listFn: func(_ context.Context, _ int64) ([]domain.Habit, error) { return habits, nil },
	}
	cr := &mockCompletionRepo{
		listFn: func(_ context.Context, habitID int64) ([]domain.Completion, error) {
			return comps[habitID], nil
		},
		byHabitFn: func(_ context.Context, _ int64) (map[int64][]domain.Completion, error) {
			return comps, nil
		},
	}
	return hr, cr
}

func TestHabitStats(t *testing.T) {
	hr, cr := seededRepos()
	svc := app.NewAnalyticsService(hr, cr, nil, nil, 0)

	st, err := svc.HabitStats(context.Background(), 1, 1, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.CurrentStreak != 3 || st.LongestStreak != 3 || !st.CompletedThisPeriod {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestHabitStats_NotFound(t *testing.T) {
	hr, cr := seededRepos()
	svc := app.NewAnalyticsService(hr, cr, nil, nil, 0)

	_, err := svc.HabitStats(context.Background(), 1, 99, fixedNow)
	if !errors.Is(err, domain.ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestSuccessRates_DefaultWindow(t *testing.T) {
	hr, cr := seededRepos()
	svc := app.NewAnalyticsService(hr, cr, nil, nil, 0)

	series, err := svc.SuccessRates(context.Background(), 1, 0, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Dates) != 7 || len(series.Rates) != 7 {
		t.Fatalf("expected 7 points, got %d/%d", len(series.Dates), len(series.Rates))
	}
	// Mar 4..7: weekly only; Mar 8..10: both.
	want := []float64{50, 50, 50, 50, 100, 100, 100}
	for i := range want {
		if series.Rates[i] != want[i] {
			t.Errorf("rate[%d] (%s) = %v; want %v", i, series.Dates[i], series.Rates[i], want[i])
		}
	}
}

func TestSuccessRates_ConfiguredWindow(t *testing.T) {
	hr, cr := seededRepos()
	svc := app.NewAnalyticsService(hr, cr, nil, nil, 14)
	if svc.WindowDays() != 14 {
		t.Fatalf("expected window 14, got %d", svc.WindowDays())
	}
	series, err := svc.SuccessRates(context.Background(), 1, 0, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Rates) != 14 {
		t.Fatalf("expected 14 points, got %d", len(series.Rates))
	}
}

func TestDashboard(t *testing.T) {
	hr, cr := seededRepos()
	svc := app.NewAnalyticsService(hr, cr, nil, nil, 7)

	d, err := svc.Dashboard(context.Background(), 1, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Streaks) != 2 || d.Streaks[0].Habit.ID != 1 {
		t.Fatalf("expected daily habit first, got %+v", d.Streaks)
	}
	if d.LongestSpanDays != 7 {
		t.Errorf("expected longest span 7 (weekly streak of 1), got %d", d.LongestSpanDays)
	}
}

func TestDashboard_UsesCache(t *testing.T) {
	hr, cr := seededRepos()
	calls := 0
	list := hr.listFn
	hr.listFn = func(ctx context.Context, userID int64) ([]domain.Habit, error) {
		calls++
		return list(ctx, userID)
	}
	cache := newMapCache()
	svc := app.NewAnalyticsService(hr, cr, cache, nil, 7)

	first, err := svc.Dashboard(context.Background(), 1, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Dashboard(context.Background(), 1, fixedNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one repository read, got %d", calls)
	}
	if second.LongestSpanDays != first.LongestSpanDays || len(second.Streaks) != len(first.Streaks) {
		t.Fatalf("cached dashboard differs: %+v vs %+v", second, first)
	}

	// A new day is a new key.
	if _, err := svc.Dashboard(context.Background(), 1, fixedNow.AddDate(0, 0, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute for a new day, got %d reads", calls)
	}

	// Writes invalidate.
	_ = cache.Invalidate(context.Background(), 1)
	if _, err := svc.Dashboard(context.Background(), 1, fixedNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected recompute after invalidation, got %d reads", calls)
	}
}

func TestDashboard_CacheErrorFallsBack(t *testing.T) {
	hr, cr := seededRepos()
	cache := newMapCache()
	cache.getErr = errors.New("redis down")
	svc := app.NewAnalyticsService(hr, cr, cache, nil, 7)

	if _, err := svc.Dashboard(context.Background(), 1, fixedNow); err != nil {
		t.Fatalf("expected cache errors to be ignored, got %v", err)
	}
}

func TestSuccessRates_RepoError(t *testing.T) {
	hr, cr := seededRepos()
	hr.listFn = func(_ context.Context, _ int64) ([]domain.Habit, error) {
		return nil, errors.New("db down")
	}
	svc := app.NewAnalyticsService(hr, cr, newMapCache(), nil, 7)
	if _, err := svc.SuccessRates(context.Background(), 1, 7, fixedNow); err == nil {
		t.Fatal("expected error")
	}
}

func TestSuccessRates_OversizedWindowSharesCappedKey(t *testing.T) {
	hr, cr := seededRepos()
	calls := 0
	list := hr.listFn
	hr.listFn = func(ctx context.Context, userID int64) ([]domain.Habit, error) {
		calls++
		return list(ctx, userID)
	}
	cache := newMapCache()
	svc := app.NewAnalyticsService(hr, cr, cache, nil, 7)

	big, err := svc.SuccessRates(context.Background(), 1, 1000, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(big.Dates) != domain.MaxWindowDays {
		t.Fatalf("expected %d days, got %d", domain.MaxWindowDays, len(big.Dates))
	}
	if _, err := svc.SuccessRates(context.Background(), 1, domain.MaxWindowDays, fixedNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected capped windows to share one cache entry, got %d reads", calls)
	}
	if len(cache.values) != 1 {
		t.Errorf("expected 1 cached value, got %d", len(cache.values))
	}
}
