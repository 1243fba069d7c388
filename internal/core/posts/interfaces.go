package posts

import "context"

// Service defines the business logic interface for the post lifecycle
type Service interface {
	// CreatePost creates a post authored by actorID.
	// Flow: RequireSelf -> validate text -> verify author exists -> store
	CreatePost(ctx context.Context, actorID string, req CreatePostRequest) (*Post, error)

	// GetPostDetail returns a post after atomically counting one more view.
	// Not idempotent: every call increments numberViews.
	GetPostDetail(ctx context.Context, postID string) (*Post, error)

	// UpdatePost merges the supplied fields into a post owned by actorID
	UpdatePost(ctx context.Context, postID, actorID string, req UpdatePostRequest) (*Post, error)

	// DeletePost permanently removes a post owned by actorID and returns it.
	// Reposts of it are left in place.
	DeletePost(ctx context.Context, postID, actorID string) (*Post, error)

	// ListPosts returns every post, unordered. Admin/debug use only.
	ListPosts(ctx context.Context) ([]*Post, error)
}

// Repository is the post store contract. Implementations must apply each
// Patch atomically against the persisted document (linearizable per post),
// and return ErrNotFound for missing ids.
type Repository interface {
	// Create inserts a post, filling id, empty collections and timestamps
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its id
	GetByID(ctx context.Context, id string) (*Post, error)

	// FindByIDAndUpdate applies patch and returns the updated post
	FindByIDAndUpdate(ctx context.Context, id string, patch Patch) (*Post, error)

	// FindByIDAndDelete removes a post and returns it as it was
	FindByIDAndDelete(ctx context.Context, id string) (*Post, error)

	// Find returns the posts matching q in q.Sort order
	Find(ctx context.Context, q Query) ([]*Post, error)

	// WithinTx runs fn against a repository bound to one transaction.
	// Stores that cannot open a transaction run fn directly against themselves.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
