package post

import (
	"net/http"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// ListHandler returns every post. Meant for admin and debugging.
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new handler for listing posts
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

// HandleList lists all posts, unordered
// GET /api/posts
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPosts(r.Context())
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Posts fetched", handlers.NewPostViews(list))
}
