package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// UpdateHandler handles post edits
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new handler for updating posts
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{
		service: service,
	}
}

// HandleUpdate merges the supplied fields into the caller's post
// PUT /api/posts/{postID}
//
// Request body: { "textComment": "...", "image": "..." } (at least one)
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	var req posts.UpdatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "postID"), actorID, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Post updated", handlers.NewPostView(post))
}
