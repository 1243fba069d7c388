package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers/feed"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/feeds"
)

// RegisterFeedRoutes registers the home feed endpoint
func RegisterFeedRoutes(r chi.Router, service feeds.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	getFeedHandler := feed.NewGetFeedHandler(service)

	// Requires authentication - the feed is built from the caller's following set
	r.With(authMiddleware.RequireAuth).Get("/api/posts/feed", getFeedHandler.HandleGetFeed)
}
