package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

// GetByID retrieves a user and their following set
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user := &users.User{}
	query := `SELECT id, username, display_name, avatar, following, created_at FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.DisplayName, &user.Avatar, pq.Array(&user.Following), &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if user.Following == nil {
		user.Following = []string{}
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return user, nil
}

// Upsert inserts a user or replaces the profile and following set of an
// existing one. created_at is kept from the first insert.
func (r *postgresUserRepo) Upsert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}

	following := user.Following
	if following == nil {
		following = []string{}
	}

	query := `
		INSERT INTO users (id, username, display_name, avatar, following)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			avatar = EXCLUDED.avatar,
			following = EXCLUDED.following
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.DisplayName, user.Avatar, pq.Array(following),
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return nil
}
