package engagement

import (
	"context"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// Service defines the engagement actions an actor can take on a post.
// Every action is one atomic store patch against the post document.
type Service interface {
	// ToggleLike adds the actor to likes if absent, removes it otherwise.
	// liked reports the membership after the toggle.
	ToggleLike(ctx context.Context, postID, actorID string) (post *posts.Post, liked bool, err error)

	// ToggleSave is ToggleLike for the savedLists set
	ToggleSave(ctx context.Context, postID, actorID string) (post *posts.Post, saved bool, err error)

	// AddReply appends a reply carrying a snapshot of the author's profile
	AddReply(ctx context.Context, req AddReplyRequest) (*posts.Post, error)
}

// AddReplyRequest is the input for replying to a post.
// Empty author fields are filled from the user store.
type AddReplyRequest struct {
	PostID            string `json:"-"`
	ActorID           string `json:"-"`
	TextComment       string `json:"textComment" validate:"required"`
	AuthorAvatar      string `json:"authorAvatar,omitempty"`
	AuthorDisplayName string `json:"authorDisplayName,omitempty"`
}
