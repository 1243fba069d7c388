package common

import (
	"net/http"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
)

// PopulateViewerState enriches post views with the authenticated caller's like and save state.
// This is a no-op if the request is unauthenticated.
func PopulateViewerState(r *http.Request, views ...*handlers.PostView) {
	actorID := middleware.GetUserID(r)
	if actorID == "" {
		return
	}

	for _, view := range views {
		if view == nil || view.Post == nil {
			continue
		}
		view.Viewer = &handlers.ViewerState{
			Liked: view.LikedBy(actorID),
			Saved: view.SavedBy(actorID),
		}
	}
}
