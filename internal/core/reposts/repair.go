package reposts

import (
	"context"
	"fmt"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// RepairRepostCounters reconciles numberViewsRepost with the reposts that
// actually exist. Reposts whose original was deleted are ignored.
func (s *repostService) RepairRepostCounters(ctx context.Context) (int, error) {
	reposts, err := s.repo.Find(ctx, posts.Query{OnlyReposts: true})
	if err != nil {
		return 0, fmt.Errorf("failed to list reposts: %w", err)
	}

	counts := make(map[string]int)
	for _, repost := range reposts {
		counts[*repost.OriginalPost]++
	}

	adjusted := 0
	for originalID, stored := range counts {
		if err := ctx.Err(); err != nil {
			return adjusted, err
		}

		original, err := s.repo.GetByID(ctx, originalID)
		if err != nil {
			if posts.IsNotFound(err) {
				continue
			}
			return adjusted, fmt.Errorf("failed to get post %s: %w", originalID, err)
		}

		missing := stored - original.NumberViewsRepost
		if missing <= 0 {
			continue
		}

		if _, err := s.repo.FindByIDAndUpdate(ctx, originalID, posts.Patch{
			Inc:            map[posts.Counter]int{posts.CounterReposts: missing},
			SkipTimestamps: true,
		}); err != nil {
			if posts.IsNotFound(err) {
				continue
			}
			return adjusted, fmt.Errorf("failed to repair post %s: %w", originalID, err)
		}

		s.logger.Info("repost counter repaired",
			"post", originalID,
			"stored_reposts", stored,
			"previous", original.NumberViewsRepost)
		adjusted++
	}

	return adjusted, nil
}
