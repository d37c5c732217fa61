package app

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"habitstreak/internal/domain"
	"habitstreak/internal/metrics"
)

const maxTitleLen = 200

var (
	// ErrInvalidTitle indicates a missing or overlong habit title.
	ErrInvalidTitle = errors.New("title must be between 1 and 200 characters")
	// ErrFrequencyLocked indicates an attempt to change the frequency of a
	// habit that already has completions. Streak history under a changed
	// frequency is not supported.
	ErrFrequencyLocked = domain.ErrFrequencyLocked
)

// HabitService encapsulates habit and completion use cases.
type HabitService struct {
	habits      domain.HabitRepository
	completions domain.CompletionRepository
	cache       StatsCache
	log         *zap.Logger
	now         func() time.Time
}

// NewHabitService creates a HabitService. cache and log may be nil.
func NewHabitService(hr domain.HabitRepository, cr domain.CompletionRepository, cache StatsCache, log *zap.Logger) *HabitService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HabitService{habits: hr, completions: cr, cache: cacheOrNop(cache), log: log, now: time.Now}
}

// WithClock replaces the service's time source.
func (s *HabitService) WithClock(now func() time.Time) *HabitService {
	s.now = now
	return s
}

// Create validates and stores a new habit.
func (s *HabitService) Create(ctx context.Context, userID int64, title, description, frequency string) (*domain.Habit, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	f, err := domain.ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	h := domain.Habit{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Frequency:   f,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.habits.CreateHabit(ctx, h)
	if err != nil {
		return nil, err
	}
	h.ID = id
	s.invalidate(ctx, userID)
	return &h, nil
}

// Get returns one of the user's habits.
func (s *HabitService) Get(ctx context.Context, userID, id int64) (*domain.Habit, error) {
	return s.habits.GetHabit(ctx, userID, id)
}

// List returns all of the user's habits, newest first.
func (s *HabitService) List(ctx context.Context, userID int64) ([]domain.Habit, error) {
	return s.habits.ListHabits(ctx, userID)
}

// Update changes a habit's title, description and frequency. The frequency
// may only change while the habit has no completions.
func (s *HabitService) Update(ctx context.Context, userID, id int64, title, description, frequency string) (*domain.Habit, error) {
	title, err := validTitle(title)
	if err != nil {
		return nil, err
	}
	f, err := domain.ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}

	h, err := s.habits.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	// UpdateHabit enforces the lock atomically; this only refuses early.
	if f != h.Frequency {
		n, err := s.completions.CountCompletions(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrFrequencyLocked
		}
	}

	h.Title = title
	h.Description = strings.TrimSpace(description)
	h.Frequency = f
	h.UpdatedAt = s.now()
	if err := s.habits.UpdateHabit(ctx, *h); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return h, nil
}

// Delete removes a habit and its completions.
func (s *HabitService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.habits.DeleteHabit(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Complete records a completion of the habit at the current time.
func (s *HabitService) Complete(ctx context.Context, userID, habitID int64, notes string) (*domain.Completion, error) {
	h, err := s.habits.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	c := domain.Completion{
		HabitID:     h.ID,
		CompletedAt: s.now(),
		Notes:       strings.TrimSpace(notes),
	}
	id, err := s.completions.AddCompletion(ctx, c.HabitID, c.CompletedAt, c.Notes)
	if err != nil {
		return nil, err
	}
	c.ID = id
	metrics.RecordCompletion(string(h.Frequency))
	s.invalidate(ctx, userID)
	return &c, nil
}

// ListCompletions returns the habit's completions, newest first.
func (s *HabitService) ListCompletions(ctx context.Context, userID, habitID int64) ([]domain.Completion, error) {
	if _, err := s.habits.GetHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	return s.completions.ListCompletions(ctx, habitID)
}

// DeleteCompletion removes a single completion of one of the user's habits.
func (s *HabitService) DeleteCompletion(ctx context.Context, userID, habitID, completionID int64) error {
	if _, err := s.habits.GetHabit(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.completions.DeleteCompletion(ctx, habitID, completionID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *HabitService) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("stats cache invalidate failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || utf8.RuneCountInString(title) > maxTitleLen {
		return "", ErrInvalidTitle
	}
	return title, nil
}
