package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// DeleteHandler handles post deletion requests
type DeleteHandler struct {
	service posts.Service
}

// NewDeleteHandler creates a new handler for deleting posts
func NewDeleteHandler(service posts.Service) *DeleteHandler {
	return &DeleteHandler{
		service: service,
	}
}

// HandleDelete deletes the caller's post and returns it
// DELETE /api/posts/{postID}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	post, err := h.service.DeletePost(r.Context(), chi.URLParam(r, "postID"), actorID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Post deleted", handlers.NewPostView(post))
}
