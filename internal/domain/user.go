// Package domain contains the core business entities, repository ports and
// the habit analytics engine.
package domain

import (
	"context"
	"time"
)

// User is the owner of habits. Identity is established upstream.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the port for user persistence operations.
// GetByUsername returns nil, nil when no such user exists.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username string) (*User, error)
}
