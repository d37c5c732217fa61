package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"habitstreak/internal/domain"
)

const habitColumns = "id, user_id, title, description, frequency, created_at, updated_at"

// CreateHabit inserts a habit and returns its ID.
func (d *DB) CreateHabit(ctx context.Context, h domain.Habit) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO habits(user_id, title, description, frequency, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id;",
		h.UserID, h.Title, h.Description, string(h.Frequency), h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	).Scan(&id)
	return id, err
}

// GetHabit returns a habit owned by userID.
func (d *DB) GetHabit(ctx context.Context, userID, id int64) (*domain.Habit, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE id=$1 AND user_id=$2;", id, userID)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHabits returns the user's habits, newest first.
func (d *DB) ListHabits(ctx context.Context, userID int64) ([]domain.Habit, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE user_id=$1 ORDER BY created_at DESC, id DESC;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateHabit updates the title, description and frequency of a habit. The
// habit row is locked FOR UPDATE, which conflicts with the key-share lock a
// completion insert takes on it, so no completion lands between the lock
// check and the write.
func (d *DB) UpdateHabit(ctx context.Context, h domain.Habit) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT frequency FROM habits WHERE id=$1 AND user_id=$2 FOR UPDATE;", h.ID, h.UserID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrHabitNotFound
	}
	if err != nil {
		return err
	}

	if current != string(h.Frequency) {
		var locked bool
		err = tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM habit_completions WHERE habit_id=$1);", h.ID).Scan(&locked)
		if err != nil {
			return err
		}
		if locked {
			return domain.ErrFrequencyLocked
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE habits SET title=$1, description=$2, frequency=$3, updated_at=$4 WHERE id=$5 AND user_id=$6;",
		h.Title, h.Description, string(h.Frequency), h.UpdatedAt.UTC(), h.ID, h.UserID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteHabit deletes a habit; completions cascade.
func (d *DB) DeleteHabit(ctx context.Context, userID, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM habits WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return err
	}
	return expectOneRow(res, domain.ErrHabitNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(s scanner) (domain.Habit, error) {
	var h domain.Habit
	var freq string
	var created, updated time.Time
	if err := s.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &freq, &created, &updated); err != nil {
		return domain.Habit{}, err
	}
	h.Frequency = domain.Frequency(freq)
	h.CreatedAt = created
	h.UpdatedAt = updated
	return h, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
