// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"habitstreak/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu          sync.Mutex
	habits      []domain.Habit
	completions []domain.Completion
	users       []*domain.User

	habitIDCounter      int64
	completionIDCounter int64
	userIDCounter       int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.HabitRepository = (*DB)(nil)
var _ domain.CompletionRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)

// --- HabitRepository ---

// CreateHabit stores a habit and returns its ID.
func (db *DB) CreateHabit(ctx context.Context, h domain.Habit) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.habitIDCounter++
	h.ID = db.habitIDCounter
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	db.habits = append(db.habits, h)
	return h.ID, nil
}

// GetHabit returns a habit owned by userID.
func (db *DB) GetHabit(ctx context.Context, userID, id int64) (*domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.habitIndex(userID, id)
	if i < 0 {
		return nil, domain.ErrHabitNotFound
	}
	h := db.habits[i]
	return &h, nil
}

// ListHabits lists the user's habits, newest first.
func (db *DB) ListHabits(ctx context.Context, userID int64) ([]domain.Habit, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Habit
	for _, h := range db.habits {
		if h.UserID == userID {
			result = append(result, h)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateHabit replaces the stored title, description and frequency. The
// frequency is locked once the habit has completions.
func (db *DB) UpdateHabit(ctx context.Context, h domain.Habit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.habitIndex(h.UserID, h.ID)
	if i < 0 {
		return domain.ErrHabitNotFound
	}
	if db.habits[i].Frequency != h.Frequency {
		for _, c := range db.completions {
			if c.HabitID == h.ID {
				return domain.ErrFrequencyLocked
			}
		}
	}
	db.habits[i].Title = h.Title
	db.habits[i].Description = h.Description
	db.habits[i].Frequency = h.Frequency
	db.habits[i].UpdatedAt = h.UpdatedAt.UTC()
	return nil
}

// DeleteHabit deletes a habit and its completions.
func (db *DB) DeleteHabit(ctx context.Context, userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.habitIndex(userID, id)
	if i < 0 {
		return domain.ErrHabitNotFound
	}
	db.habits = append(db.habits[:i], db.habits[i+1:]...)

	kept := db.completions[:0]
	for _, c := range db.completions {
		if c.HabitID != id {
			kept = append(kept, c)
		}
	}
	db.completions = kept
	return nil
}

func (db *DB) habitIndex(userID, id int64) int {
	for i, h := range db.habits {
		if h.ID == id && h.UserID == userID {
			return i
		}
	}
	return -1
}

// --- CompletionRepository ---

// AddCompletion records a completion. The instant must be unique per habit.
func (db *DB) AddCompletion(ctx context.Context, habitID int64, completedAt time.Time, notes string) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, c := range db.completions {
		if c.HabitID == habitID && c.CompletedAt.Equal(completedAt) {
			return 0, domain.ErrDuplicateCompletion
		}
	}

	db.completionIDCounter++
	c := domain.Completion{
		ID:          db.completionIDCounter,
		HabitID:     habitID,
		CompletedAt: completedAt.UTC(),
		Notes:       notes,
	}
	db.completions = append(db.completions, c)
	return c.ID, nil
}

// DeleteCompletion deletes a completion of the habit.
func (db *DB) DeleteCompletion(ctx context.Context, habitID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, c := range db.completions {
		if c.ID == id && c.HabitID == habitID {
			db.completions = append(db.completions[:i], db.completions[i+1:]...)
			return nil
		}
	}
	return domain.ErrCompletionNotFound
}

// ListCompletions lists the habit's completions, newest first.
func (db *DB) ListCompletions(ctx context.Context, habitID int64) ([]domain.Completion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Completion
	for _, c := range db.completions {
		if c.HabitID == habitID {
			result = append(result, c)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

// CountCompletions returns the number of completions of the habit.
func (db *DB) CountCompletions(ctx context.Context, habitID int64) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, c := range db.completions {
		if c.HabitID == habitID {
			n++
		}
	}
	return n, nil
}

// CompletionsByHabit returns the completions of every habit owned by userID.
func (db *DB) CompletionsByHabit(ctx context.Context, userID int64) (map[int64][]domain.Completion, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	owned := make(map[int64]bool)
	for _, h := range db.habits {
		if h.UserID == userID {
			owned[h.ID] = true
		}
	}
	result := make(map[int64][]domain.Completion, len(owned))
	for _, c := range db.completions {
		if owned[c.HabitID] {
			result[c.HabitID] = append(result[c.HabitID], c)
		}
	}
	for _, cs := range result {
		sortNewestFirst(cs)
	}
	return result, nil
}

func sortNewestFirst(cs []domain.Completion) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].CompletedAt.After(cs[j].CompletedAt)
	})
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:        db.userIDCounter,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}
