package users

import "context"

// Repository is the user/following-graph collaborator.
// The post engine only reads from it; Upsert exists for seeding and tests.
type Repository interface {
	// GetByID returns ErrUserNotFound when no user has the given id
	GetByID(ctx context.Context, id string) (*User, error)

	// Upsert creates the user or replaces its profile and following set
	Upsert(ctx context.Context, user *User) error
}
