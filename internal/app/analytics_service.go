package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habitstreak/internal/domain"
	"habitstreak/internal/metrics"
)

// AnalyticsService serves streak and success-rate analytics. Every call reads
// the user's habits and completions and recomputes from scratch unless a
// StatsCache is configured.
type AnalyticsService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	cache       StatsCache
	log         *zap.Logger
	windowDays  int
}

// NewAnalyticsService creates an AnalyticsService. windowDays is the default
// success-rate window; values <= 0 fall back to domain.DefaultWindowDays.
// cache and log may be nil.
func NewAnalyticsService(hr domain.HabitRepository, cr domain.CompletionRepository, cache StatsCache, log *zap.Logger, windowDays int) *AnalyticsService {
	if log == nil {
		log = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = domain.DefaultWindowDays
	}
	windowDays = min(windowDays, domain.MaxWindowDays)
	return &AnalyticsService{habits: hr, completions: cr, cache: cacheOrNop(cache), log: log, windowDays: windowDays}
}

// WindowDays returns the default success-rate window.
func (s *AnalyticsService) WindowDays() int {
	return s.windowDays
}

// HabitStats returns the streak metrics of one habit at now.
func (s *AnalyticsService) HabitStats(ctx context.Context, userID, habitID int64, now time.Time) (domain.HabitStats, error) {
	defer observe("habit_stats", time.Now())

	key := fmt.Sprintf("habit:%d:%s", habitID, dayKey(now))
	return cached(ctx, s.cache, s.log, "habit_stats", userID, key, func() (domain.HabitStats, error) {
		h, err := s.habits.GetHabit(ctx, userID, habitID)
		if err != nil {
			return domain.HabitStats{}, err
		}
		cs, err := s.completions.ListCompletions(ctx, habitID)
		if err != nil {
			return domain.HabitStats{}, err
		}
		return domain.ComputeHabitStats(*h, cs, now)
	})
}

// SuccessRates returns the daily success-rate series over the last days days
// ending at now. days <= 0 uses the service default; days is capped at
// domain.MaxWindowDays.
func (s *AnalyticsService) SuccessRates(ctx context.Context, userID int64, days int, now time.Time) (domain.SuccessSeries, error) {
	defer observe("success_rates", time.Now())

	if days <= 0 {
		days = s.windowDays
	}
	days = min(days, domain.MaxWindowDays)
	key := fmt.Sprintf("success:%d:%s", days, dayKey(now))
	return cached(ctx, s.cache, s.log, "success_rates", userID, key, func() (domain.SuccessSeries, error) {
		hs, err := s.histories(ctx, userID)
		if err != nil {
			return domain.SuccessSeries{}, err
		}
		return domain.SuccessRates(hs, now, days)
	})
}

// Dashboard returns the aggregate analytics view for the user at now.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID int64, now time.Time) (domain.Dashboard, error) {
	defer observe("dashboard", time.Now())

	key := fmt.Sprintf("dashboard:%d:%s", s.windowDays, dayKey(now))
	return cached(ctx, s.cache, s.log, "dashboard", userID, key, func() (domain.Dashboard, error) {
		hs, err := s.histories(ctx, userID)
		if err != nil {
			return domain.Dashboard{}, err
		}
		return domain.BuildDashboard(hs, now, s.windowDays)
	})
}

func (s *AnalyticsService) histories(ctx context.Context, userID int64) ([]domain.HabitHistory, error) {
	habits, err := s.habits.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	byHabit, err := s.completions.CompletionsByHabit(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.HabitHistory, 0, len(habits))
	for _, h := range habits {
		out = append(out, domain.HabitHistory{Habit: h, Completions: byHabit[h.ID]})
	}
	return out, nil
}

// dayKey identifies the calendar day of now together with its time zone,
// since every analytics result is a function of both.
func dayKey(now time.Time) string {
	return now.Format(domain.DayLayout) + "@" + now.Location().String()
}

func observe(op string, start time.Time) {
	metrics.ObserveAnalytics(op, time.Since(start))
}
