package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

type postService struct {
	repo     Repository
	userRepo users.Repository
	logger   *slog.Logger
}

// NewPostService creates a new post service
func NewPostService(repo Repository, userRepo users.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreatePost creates a new post
// Flow:
// 1. The authenticated actor must be the declared author
// 2. Validate postedBy and textComment (required, at most 500 characters)
// 3. The author must exist in the user store
// 4. Persist with zero counters and empty engagement sets
func (s *postService) CreatePost(ctx context.Context, actorID string, req CreatePostRequest) (*Post, error) {
	if err := RequireSelf(req.PostedBy, actorID); err != nil {
		s.logger.Warn("post create rejected: author mismatch",
			"actor", actorID,
			"posted_by", req.PostedBy)
		return nil, err
	}

	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, req.PostedBy); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up author: %w", err)
	}

	post := &Post{
		PostedBy:    req.PostedBy,
		TextComment: req.TextComment,
		Image:       req.Image,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("post created",
		"post", post.ID,
		"actor", actorID)

	return post, nil
}

// GetPostDetail counts a view and returns the post as stored after the increment
func (s *postService) GetPostDetail(ctx context.Context, postID string) (*Post, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "is required")
	}

	post, err := s.repo.FindByIDAndUpdate(ctx, postID, Patch{
		Inc: map[Counter]int{CounterViews: 1},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post detail: %w", err)
	}

	return post, nil
}

// UpdatePost merges the supplied content fields into the author's post.
// textComment is held to the same rules as on creation.
func (s *postService) UpdatePost(ctx context.Context, postID, actorID string, req UpdatePostRequest) (*Post, error) {
	if req.IsEmpty() {
		return nil, NewValidationError("body", "at least one field must be supplied")
	}
	if req.TextComment != nil {
		if err := ValidateTextComment(*req.TextComment); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := RequireAuthor(existing, actorID); err != nil {
		s.logger.Warn("post update rejected: not the author",
			"post", postID,
			"actor", actorID)
		return nil, err
	}

	updated, err := s.repo.FindByIDAndUpdate(ctx, postID, Patch{
		Set: Fields{TextComment: req.TextComment, Image: req.Image},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.Info("post updated",
		"post", postID,
		"actor", actorID)

	return updated, nil
}

// DeletePost removes the author's post. Reposts keep their snapshot and a
// dangling originalPost reference.
func (s *postService) DeletePost(ctx context.Context, postID, actorID string) (*Post, error) {
	existing, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := RequireAuthor(existing, actorID); err != nil {
		s.logger.Warn("post delete rejected: not the author",
			"post", postID,
			"actor", actorID)
		return nil, err
	}

	deleted, err := s.repo.FindByIDAndDelete(ctx, postID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted",
		"post", postID,
		"actor", actorID)

	return deleted, nil
}

// ListPosts returns every stored post
func (s *postService) ListPosts(ctx context.Context) ([]*Post, error) {
	list, err := s.repo.Find(ctx, Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return list, nil
}
