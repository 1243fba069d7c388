package repost

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/reposts"
)

// RepostHandler handles repost requests
type RepostHandler struct {
	service reposts.Service
}

// NewRepostHandler creates a new repost handler
func NewRepostHandler(service reposts.Service) *RepostHandler {
	return &RepostHandler{
		service: service,
	}
}

// HandleRepost copies the post into a new post owned by the caller
// POST /api/posts/{postID}/repost
func (h *RepostHandler) HandleRepost(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	post, err := h.service.Repost(r.Context(), chi.URLParam(r, "postID"), actorID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusCreated, "Post reposted", handlers.NewPostView(post))
}
