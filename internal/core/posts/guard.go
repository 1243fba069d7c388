package posts

import "fmt"

// RequireAuthor fails with ErrNotAuthorized unless actorID wrote the post.
// Applied before every author-scoped mutation (update, delete).
func RequireAuthor(post *Post, actorID string) error {
	if post == nil || actorID == "" || post.PostedBy != actorID {
		return fmt.Errorf("%w: only the author may modify this post", ErrNotAuthorized)
	}
	return nil
}

// RequireSelf fails with ErrNotAuthorized unless the target actor is the
// authenticated one, so nobody can create posts as someone else.
func RequireSelf(targetActorID, actorID string) error {
	if actorID == "" || targetActorID != actorID {
		return fmt.Errorf("%w: cannot act on behalf of another user", ErrNotAuthorized)
	}
	return nil
}
