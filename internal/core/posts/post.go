package posts

import (
	"slices"
	"time"

	"github.com/bluesky-social/indigo/atproto/syntax"
)

// MaxTextCommentLength is the upper bound, in characters, on a post's text
const MaxTextCommentLength = 500

// Post is the central document. Engagement state (likes, savedLists, replies)
// is embedded so every engagement write is a single-document update.
type Post struct {
	CreatedAt         time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time  `json:"updatedAt" bson:"updated_at"`
	LastRepostedAt    *time.Time `json:"lastRepostedAt,omitempty" bson:"last_reposted_at,omitempty"`
	Image             *string    `json:"image,omitempty" bson:"image,omitempty"`
	OriginalPost      *string    `json:"originalPost,omitempty" bson:"original_post,omitempty"`
	ID                string     `json:"id" bson:"_id"`
	PostedBy          string     `json:"postedBy" bson:"posted_by"`
	TextComment       string     `json:"textComment" bson:"text_comment"`
	Likes             []string   `json:"likes" bson:"likes"`
	SavedLists        []string   `json:"savedLists" bson:"saved_lists"`
	Replies           []Reply    `json:"replies" bson:"replies"`
	NumberViews       int        `json:"numberViews" bson:"number_views"`
	NumberViewsRepost int        `json:"numberViewsRepost" bson:"number_views_repost"`
}

// Reply is embedded in a Post and is not addressable on its own.
// Author fields are a snapshot taken when the reply was written.
type Reply struct {
	CreatedAt         time.Time `json:"createdAt" bson:"created_at"`
	ID                string    `json:"id" bson:"id"`
	AuthorID          string    `json:"authorId" bson:"author_id"`
	TextComment       string    `json:"textComment" bson:"text_comment"`
	AuthorAvatar      string    `json:"authorAvatar" bson:"author_avatar"`
	AuthorDisplayName string    `json:"authorDisplayName" bson:"author_display_name"`
}

// CreatePostRequest is the input for creating a post
type CreatePostRequest struct {
	Image       *string `json:"image,omitempty"`
	PostedBy    string  `json:"postedBy" validate:"required"`
	TextComment string  `json:"textComment" validate:"required,max=500"`
}

// UpdatePostRequest is a partial update of the author-editable fields.
// Nil fields are left as stored.
type UpdatePostRequest struct {
	TextComment *string `json:"textComment,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// IsEmpty reports whether no field was supplied
func (r UpdatePostRequest) IsEmpty() bool {
	return r.TextComment == nil && r.Image == nil
}

// NewPostID returns a new time-sortable post identifier
func NewPostID() string {
	return syntax.NewTIDNow(0).String()
}

// IsRepost reports whether the post was derived from another post
func (p *Post) IsRepost() bool {
	return p.OriginalPost != nil
}

// LikedBy reports whether actorID is in the likes set
func (p *Post) LikedBy(actorID string) bool {
	return slices.Contains(p.Likes, actorID)
}

// SavedBy reports whether actorID is in the savedLists set
func (p *Post) SavedBy(actorID string) bool {
	return slices.Contains(p.SavedLists, actorID)
}

// Members returns the set stored under field
func (p *Post) Members(field SetField) []string {
	switch field {
	case SetLikes:
		return p.Likes
	case SetSavedLists:
		return p.SavedLists
	}
	return nil
}

func (p *Post) setMembers(field SetField, members []string) {
	switch field {
	case SetLikes:
		p.Likes = members
	case SetSavedLists:
		p.SavedLists = members
	}
}

// normalize replaces nil collections with empty ones so documents always
// serialise sets and replies as arrays
func (p *Post) normalize() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.SavedLists == nil {
		p.SavedLists = []string{}
	}
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
}

// PrepareForCreate fills the fields a store assigns on insert: id, empty
// collections and lifecycle timestamps. Preset values are kept.
func (p *Post) PrepareForCreate(now time.Time) {
	if p.ID == "" {
		p.ID = NewPostID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	p.normalize()
}
