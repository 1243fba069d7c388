package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

type engagementService struct {
	repo     posts.Repository
	userRepo users.Repository
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngagementService creates a new engagement service
func NewEngagementService(repo posts.Repository, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &engagementService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ToggleLike flips the actor's like on a post
func (s *engagementService) ToggleLike(ctx context.Context, postID, actorID string) (*posts.Post, bool, error) {
	return s.toggle(ctx, postID, actorID, posts.SetLikes)
}

// ToggleSave flips the actor's bookmark on a post
func (s *engagementService) ToggleSave(ctx context.Context, postID, actorID string) (*posts.Post, bool, error) {
	return s.toggle(ctx, postID, actorID, posts.SetSavedLists)
}

// toggle sends a single Toggle patch. The membership test happens inside the
// store, so the result is read back from the returned document instead of a
// prior GetByID that a concurrent request could invalidate.
func (s *engagementService) toggle(ctx context.Context, postID, actorID string, field posts.SetField) (*posts.Post, bool, error) {
	if actorID == "" {
		return nil, false, fmt.Errorf("%w: actor is required", posts.ErrNotAuthorized)
	}
	if postID == "" {
		return nil, false, posts.NewValidationError("postId", "is required")
	}

	post, err := s.repo.FindByIDAndUpdate(ctx, postID, posts.Patch{
		Toggle: map[posts.SetField]string{field: actorID},
	})
	if err != nil {
		if posts.IsNotFound(err) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("failed to toggle %s: %w", field, err)
	}

	member := slices.Contains(post.Members(field), actorID)

	s.logger.Info("engagement toggled",
		"post", postID,
		"actor", actorID,
		"set", string(field),
		"member", member)

	return post, member, nil
}

// AddReply appends a reply to a post
// Flow:
// 1. Validate the reply text (required)
// 2. Fill the author snapshot from the user store when the caller did not
// 3. Push the reply with a fresh uuid in one atomic patch
func (s *engagementService) AddReply(ctx context.Context, req AddReplyRequest) (*posts.Post, error) {
	if req.ActorID == "" {
		return nil, fmt.Errorf("%w: actor is required", posts.ErrNotAuthorized)
	}
	if req.PostID == "" {
		return nil, posts.NewValidationError("postId", "is required")
	}
	if err := posts.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.AuthorAvatar == "" && req.AuthorDisplayName == "" && s.userRepo != nil {
		author, err := s.userRepo.GetByID(ctx, req.ActorID)
		switch {
		case err == nil:
			req.AuthorAvatar = author.Avatar
			req.AuthorDisplayName = author.Name()
		case errors.Is(err, users.ErrUserNotFound):
			s.logger.Warn("reply author has no profile, storing empty snapshot",
				"actor", req.ActorID)
		default:
			return nil, fmt.Errorf("failed to look up reply author: %w", err)
		}
	}

	reply := posts.Reply{
		ID:                uuid.NewString(),
		AuthorID:          req.ActorID,
		TextComment:       req.TextComment,
		AuthorAvatar:      req.AuthorAvatar,
		AuthorDisplayName: req.AuthorDisplayName,
		CreatedAt:         s.now(),
	}

	post, err := s.repo.FindByIDAndUpdate(ctx, req.PostID, posts.Patch{
		Push: []posts.Reply{reply},
	})
	if err != nil {
		if posts.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add reply: %w", err)
	}

	s.logger.Info("reply added",
		"post", req.PostID,
		"actor", req.ActorID,
		"reply", reply.ID)

	return post, nil
}
