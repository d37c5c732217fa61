package postgres

import (
	"context"
	"time"

	"habitstreak/internal/domain"
)

// AddCompletion inserts a completion. A second completion at the same instant
// for the same habit yields domain.ErrDuplicateCompletion.
func (d *DB) AddCompletion(ctx context.Context, habitID int64, completedAt time.Time, notes string) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO habit_completions(habit_id, completed_at, notes) VALUES($1, $2, $3) RETURNING id;",
		habitID, completedAt.UTC(), notes,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.ErrDuplicateCompletion
	}
	return id, err
}

// DeleteCompletion removes a completion by ID, scoped to a habit.
func (d *DB) DeleteCompletion(ctx context.Context, habitID, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM habit_completions WHERE id=$1 AND habit_id=$2;", id, habitID)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrCompletionNotFound)
}

// ListCompletions returns the habit's completions, newest first.
func (d *DB) ListCompletions(ctx context.Context, habitID int64) ([]domain.Completion, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, habit_id, completed_at, notes FROM habit_completions WHERE habit_id=$1 ORDER BY completed_at DESC;", habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Completion
	for rows.Next() {
		var c domain.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedAt, &c.Notes); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountCompletions returns the number of completions of a habit.
func (d *DB) CountCompletions(ctx context.Context, habitID int64) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM habit_completions WHERE habit_id=$1;", habitID).Scan(&n)
	return n, err
}

// CompletionsByHabit returns all completions of the user's habits keyed by habit ID.
func (d *DB) CompletionsByHabit(ctx context.Context, userID int64) (map[int64][]domain.Completion, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT c.id, c.habit_id, c.completed_at, c.notes
		 FROM habit_completions c JOIN habits h ON h.id = c.habit_id
		 WHERE h.user_id=$1 ORDER BY c.completed_at DESC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[int64][]domain.Completion)
	for rows.Next() {
		var c domain.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.CompletedAt, &c.Notes); err != nil {
			return nil, err
		}
		out[c.HabitID] = append(out[c.HabitID], c)
	}
	return out, rows.Err()
}
