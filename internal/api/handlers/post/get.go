package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/handlers/common"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// GetHandler handles post detail requests
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new handler for reading a post
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{
		service: service,
	}
}

// HandleGet returns a post and counts the view
// GET /api/posts/{postID}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostDetail(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	view := handlers.NewPostView(post)
	common.PopulateViewerState(r, view)

	handlers.WriteSuccess(w, http.StatusOK, "Post fetched", view)
}
