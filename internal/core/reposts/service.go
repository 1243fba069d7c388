package reposts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/jinzhu/copier"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

type repostService struct {
	repo   posts.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewRepostService creates a new repost service
func NewRepostService(repo posts.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &repostService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// snapshot is the part of a post carried into a repost
type snapshot struct {
	Image       *string
	TextComment string
	Likes       []string
	SavedLists  []string
	NumberViews int
}

// Repost creates a snapshot copy of postID for actorID
// Flow:
// 1. Load the original (NotFound if absent)
// 2. Deep-copy content and engagement state into a new post
// 3. Insert the repost and bump the original's repost counter
// Steps 1-3 share one transaction where the store supports it; otherwise
// RepairRepostCounters reconciles a counter bump lost between the writes.
func (s *repostService) Repost(ctx context.Context, postID, actorID string) (*posts.Post, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor is required", posts.ErrNotAuthorized)
	}
	if postID == "" {
		return nil, posts.NewValidationError("postId", "is required")
	}

	var created *posts.Post
	err := s.repo.WithinTx(ctx, func(ctx context.Context, tx posts.Repository) error {
		original, err := tx.GetByID(ctx, postID)
		if err != nil {
			return err
		}

		repost, err := s.buildRepost(original, actorID)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, repost); err != nil {
			return fmt.Errorf("failed to create repost: %w", err)
		}

		if _, err := tx.FindByIDAndUpdate(ctx, original.ID, posts.Patch{
			Inc:            map[posts.Counter]int{posts.CounterReposts: 1},
			SkipTimestamps: true,
		}); err != nil {
			return fmt.Errorf("failed to count repost: %w", err)
		}

		created = repost
		return nil
	})
	if err != nil {
		if posts.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to repost: %w", err)
	}

	s.logger.Info("post reposted",
		"post", created.ID,
		"original", postID,
		"actor", actorID)

	return created, nil
}

func (s *repostService) buildRepost(original *posts.Post, actorID string) (*posts.Post, error) {
	var snap snapshot
	if err := copier.CopyWithOption(&snap, original, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy post: %w", err)
	}

	now := s.now()
	originalID := original.ID
	return &posts.Post{
		PostedBy:       actorID,
		TextComment:    snap.TextComment,
		Image:          snap.Image,
		Likes:          snap.Likes,
		SavedLists:     snap.SavedLists,
		NumberViews:    snap.NumberViews,
		Replies:        slices.Clone(original.Replies),
		OriginalPost:   &originalID,
		LastRepostedAt: &now,
		CreatedAt:      now,
	}, nil
}
