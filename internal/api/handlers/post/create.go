package post

import (
	"net/http"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new handler for creating posts
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{
		service: service,
	}
}

// HandleCreate creates a post
// POST /api/posts
//
// Request body: { "postedBy": "<user id>", "textComment": "...", "image": "..." }
// postedBy defaults to the authenticated user and must match it when given.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	var req posts.CreatePostRequest
	if !handlers.DecodeJSON(w, r, &req) {
		return
	}
	if req.PostedBy == "" {
		req.PostedBy = actorID
	}

	post, err := h.service.CreatePost(r.Context(), actorID, req)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusCreated, "Post created", handlers.NewPostView(post))
}
