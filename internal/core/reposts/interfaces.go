package reposts

import (
	"context"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// Service defines repost creation and counter maintenance
type Service interface {
	// Repost copies a post's content and engagement into a new post owned by
	// actorID and counts the repost on the original
	Repost(ctx context.Context, postID, actorID string) (*posts.Post, error)

	// RepairRepostCounters raises every original's numberViewsRepost to at
	// least the number of stored reposts of it and returns how many posts
	// were adjusted. Counters are never lowered.
	RepairRepostCounters(ctx context.Context) (int, error)
}
