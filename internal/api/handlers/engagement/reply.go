package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	engagementCore "github.com/SoulMinT05/threadsnet/internal/core/engagement"
)

// ReplyHandler handles replies to posts
type ReplyHandler struct {
	service engagementCore.Service
}

// NewReplyHandler creates a new reply handler
func NewReplyHandler(service engagementCore.Service) *ReplyHandler {
	return &ReplyHandler{
		service: service,
	}
}

// HandleReply appends a reply to the post
// PUT /api/posts/{postID}/reply
//
// Request body: { "textComment": "..." }
// The author snapshot comes from the caller's profile.
func (h *ReplyHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	var body struct {
		TextComment string `json:"textComment"`
	}
	if !handlers.DecodeJSON(w, r, &body) {
		return
	}

	post, err := h.service.AddReply(r.Context(), engagementCore.AddReplyRequest{
		PostID:      chi.URLParam(r, "postID"),
		ActorID:     actorID,
		TextComment: body.TextComment,
	})
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Reply added", handlers.NewPostView(post))
}
