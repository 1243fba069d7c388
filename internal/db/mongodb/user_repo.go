package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewUserRepository creates a user repository over db's users collection
func NewUserRepository(db *mongo.Database) users.Repository {
	return &mongoUserRepo{coll: db.Collection(usersCollection)}
}

// GetByID retrieves a user by ID
func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

// Upsert creates the user or replaces its profile and following set
func (r *mongoUserRepo) Upsert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}

	following := user.Following
	if following == nil {
		following = []string{}
	}

	update := bson.M{
		"$set": bson.M{
			"username":     user.Username,
			"display_name": user.DisplayName,
			"avatar":       user.Avatar,
			"following":    following,
		},
		"$setOnInsert": bson.M{"created_at": mongoNow()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored users.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": user.ID}, update, opts).Decode(&stored); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	user.CreatedAt = stored.CreatedAt.UTC()
	return nil
}
