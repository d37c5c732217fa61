package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrHabitNotFound indicates the habit does not exist or belongs to another user.
	ErrHabitNotFound = errors.New("habit not found")
	// ErrCompletionNotFound indicates the completion does not exist for the habit.
	ErrCompletionNotFound = errors.New("completion not found")
	// ErrDuplicateCompletion indicates a completion already exists at the same instant.
	ErrDuplicateCompletion = errors.New("completion already recorded at this time")
	// ErrFrequencyLocked indicates an attempt to change the frequency of a
	// habit that already has completions.
	ErrFrequencyLocked = errors.New("frequency cannot change once completions exist")
)

// Habit is something a user wants to do at a fixed cadence.
type Habit struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Frequency   Frequency `json:"frequency"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Completion records one occasion on which a habit was performed.
type Completion struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habitId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes"`
}

// HabitRepository is the port for habit persistence. All lookups are scoped
// to the owning user.
type HabitRepository interface {
	CreateHabit(ctx context.Context, h Habit) (int64, error)
	GetHabit(ctx context.Context, userID, id int64) (*Habit, error)
	ListHabits(ctx context.Context, userID int64) ([]Habit, error)
	// UpdateHabit stores h's title, description and frequency. A frequency
	// change on a habit with completions fails with ErrFrequencyLocked; the
	// check and the write are atomic with respect to AddCompletion.
	UpdateHabit(ctx context.Context, h Habit) error
	DeleteHabit(ctx context.Context, userID, id int64) error
}

// CompletionRepository is the port for completion persistence.
type CompletionRepository interface {
	AddCompletion(ctx context.Context, habitID int64, completedAt time.Time, notes string) (int64, error)
	DeleteCompletion(ctx context.Context, habitID, id int64) error
	// ListCompletions returns the habit's completions, newest first.
	ListCompletions(ctx context.Context, habitID int64) ([]Completion, error)
	CountCompletions(ctx context.Context, habitID int64) (int, error)
	// CompletionsByHabit returns every completion of every habit owned by userID.
	CompletionsByHabit(ctx context.Context, userID int64) (map[int64][]Completion, error)
}
