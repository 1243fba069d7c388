package feed

import (
	"net/http"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/handlers/common"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/feeds"
)

// GetFeedHandler handles home feed requests
type GetFeedHandler struct {
	service feeds.Service
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service feeds.Service) *GetFeedHandler {
	return &GetFeedHandler{
		service: service,
	}
}

// HandleGetFeed returns posts by accounts the caller follows, newest first
// GET /api/posts/feed
func (h *GetFeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		handlers.WriteError(w, http.StatusUnauthorized, handlers.KindAuthRequired, "Authentication required")
		return
	}

	list, err := h.service.GetFeed(r.Context(), actorID)
	if err != nil {
		handlers.WriteServiceError(w, r, err)
		return
	}

	views := handlers.NewPostViews(list)
	common.PopulateViewerState(r, views...)

	handlers.WriteSuccess(w, http.StatusOK, "Feed fetched", views)
}
