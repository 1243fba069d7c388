package posts

import (
	"fmt"
	"slices"
	"time"
)

// Counter names a monotonically increasing post counter
type Counter string

const (
	CounterViews   Counter = "numberViews"
	CounterReposts Counter = "numberViewsRepost"
)

// SetField names an actor-id set embedded in a post
type SetField string

const (
	SetLikes      SetField = "likes"
	SetSavedLists SetField = "savedLists"
)

// Fields holds the content fields replaced by a merge update
type Fields struct {
	TextComment *string
	Image       *string
}

func (f Fields) isEmpty() bool {
	return f.TextComment == nil && f.Image == nil
}

// Patch describes one atomic update of a single post. Every store applies
// the whole patch against the currently persisted document in one step, so
// the set operations are idempotent and commutative and Toggle decides
// membership against the stored state rather than a prior read.
type Patch struct {
	Set      Fields
	Inc      map[Counter]int
	AddToSet map[SetField]string
	Pull     map[SetField]string
	// Toggle removes the actor if present, adds it otherwise
	Toggle map[SetField]string
	Push   []Reply
	// SkipTimestamps leaves UpdatedAt untouched
	SkipTimestamps bool
}

// Validate rejects empty patches, unknown counters or sets, and patches that
// touch the same set with more than one operation
func (p Patch) Validate() error {
	if p.Set.isEmpty() && len(p.Inc) == 0 && len(p.AddToSet) == 0 &&
		len(p.Pull) == 0 && len(p.Toggle) == 0 && len(p.Push) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidPatch)
	}

	for counter, delta := range p.Inc {
		if counter != CounterViews && counter != CounterReposts {
			return fmt.Errorf("%w: unknown counter %q", ErrInvalidPatch, counter)
		}
		if delta < 0 {
			return fmt.Errorf("%w: counter %q cannot decrease", ErrInvalidPatch, counter)
		}
	}

	seen := make(map[SetField]bool)
	for _, ops := range []map[SetField]string{p.AddToSet, p.Pull, p.Toggle} {
		for field, member := range ops {
			if field != SetLikes && field != SetSavedLists {
				return fmt.Errorf("%w: unknown set %q", ErrInvalidPatch, field)
			}
			if member == "" {
				return fmt.Errorf("%w: empty member for set %q", ErrInvalidPatch, field)
			}
			if seen[field] {
				return fmt.Errorf("%w: set %q used by more than one operation", ErrInvalidPatch, field)
			}
			seen[field] = true
		}
	}

	return nil
}

// Apply mutates post in memory with the patch semantics every store must
// reproduce. Stores without native patch operators run it inside a
// read-modify-write transaction.
func (p Patch) Apply(post *Post, now time.Time) {
	if p.Set.TextComment != nil {
		post.TextComment = *p.Set.TextComment
	}
	if p.Set.Image != nil {
		image := *p.Set.Image
		post.Image = &image
	}

	for counter, delta := range p.Inc {
		switch counter {
		case CounterViews:
			post.NumberViews += delta
		case CounterReposts:
			post.NumberViewsRepost += delta
		}
	}

	for field, member := range p.AddToSet {
		if !slices.Contains(post.Members(field), member) {
			post.setMembers(field, append(post.Members(field), member))
		}
	}
	for field, member := range p.Pull {
		post.setMembers(field, without(post.Members(field), member))
	}
	for field, member := range p.Toggle {
		if slices.Contains(post.Members(field), member) {
			post.setMembers(field, without(post.Members(field), member))
		} else {
			post.setMembers(field, append(post.Members(field), member))
		}
	}

	post.Replies = append(post.Replies, p.Push...)

	if !p.SkipTimestamps {
		post.UpdatedAt = now
	}
	post.normalize()
}

func without(members []string, member string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m != member {
			out = append(out, m)
		}
	}
	return out
}

// SortOrder selects the ordering of Find results
type SortOrder int

const (
	// SortNone leaves the order to the store
	SortNone SortOrder = iota
	// SortNewestFirst orders by createdAt descending, id descending on ties
	SortNewestFirst
)

// Query is the predicate accepted by Repository.Find. Zero value matches
// every post.
type Query struct {
	// AuthorIDs restricts results to posts whose postedBy is in the list.
	// A non-nil empty slice matches nothing.
	AuthorIDs []string
	// OnlyReposts restricts results to posts with an originalPost reference
	OnlyReposts bool
	Sort        SortOrder
}

// Matches evaluates the predicate in memory
func (q Query) Matches(post *Post) bool {
	if q.AuthorIDs != nil && !slices.Contains(q.AuthorIDs, post.PostedBy) {
		return false
	}
	if q.OnlyReposts && !post.IsRepost() {
		return false
	}
	return true
}

// SortPosts orders posts in place according to order
func SortPosts(list []*Post, order SortOrder) {
	if order != SortNewestFirst {
		return
	}
	slices.SortStableFunc(list, func(a, b *Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
