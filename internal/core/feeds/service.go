package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

// Service assembles per-user feeds from the following graph at read time
type Service interface {
	// GetFeed returns posts by the accounts actorID follows, newest first
	GetFeed(ctx context.Context, actorID string) ([]*posts.Post, error)
}

type feedService struct {
	repo     posts.Repository
	userRepo users.Repository
	logger   *slog.Logger
}

// NewFeedService creates a new feed service
func NewFeedService(repo posts.Repository, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetFeed retrieves the actor's home feed
func (s *feedService) GetFeed(ctx context.Context, actorID string) ([]*posts.Post, error) {
	// 1. Actor must be set (from auth middleware)
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor is required", posts.ErrNotAuthorized)
	}

	// 2. Load the following set
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// 3. Nobody followed, nothing to query
	if len(user.Following) == 0 {
		return []*posts.Post{}, nil
	}

	// 4. Posts by followed authors, newest first
	feed, err := s.repo.Find(ctx, posts.Query{
		AuthorIDs: user.Following,
		Sort:      posts.SortNewestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}

	s.logger.Debug("feed assembled",
		"actor", actorID,
		"following", len(user.Following),
		"posts", len(feed))

	return feed, nil
}
