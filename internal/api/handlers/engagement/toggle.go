package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	engagementCore "github.com/SoulMinT05/threadsnet/internal/core/engagement"
)

// LikeResponse is the data of a like toggle
type LikeResponse struct {
	Post  *handlers.PostView `json:"post"`
	Liked bool               `json:"liked"`
}

// SaveResponse is the data of a save toggle
type SaveResponse struct {
	Post  *handlers.PostView `json:"post"`
	Saved bool               `json:"saved"`
}

// ToggleHandler handles like and save toggles
type ToggleHandler struct {
	service engagementCore.Service
}

// NewToggleHandler creates a new toggle handler
func NewToggleHandler(service engagementCore.Service) *ToggleHandler {
	return &ToggleHandler{
		service: service,
	}
}

// HandleLike likes the post, or unlikes it if already liked
// PUT /api/posts/{postID}/like
func (h *ToggleHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	post, liked, err := h.service.ToggleLike(r.Context(), chi.URLParam(r, "postID"), actorID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	handlers.WriteSuccess(w, http.StatusOK, message, LikeResponse{
		Post:  handlers.NewPostView(post),
		Liked: liked,
	})
}

// HandleSave bookmarks the post, or removes the bookmark
// PUT /api/posts/{postID}/save
func (h *ToggleHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	post, saved, err := h.service.ToggleSave(r.Context(), chi.URLParam(r, "postID"), actorID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	message := "Post unsaved"
	if saved {
		message = "Post saved"
	}
	handlers.WriteSuccess(w, http.StatusOK, message, SaveResponse{
		Post:  handlers.NewPostView(post),
		Saved: saved,
	})
}
