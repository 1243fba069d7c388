package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers/repost"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/reposts"
)

// RegisterRepostRoutes registers the repost endpoint
func RegisterRepostRoutes(r chi.Router, service reposts.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	repostHandler := repost.NewRepostHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/api/posts/{postID}/repost", repostHandler.HandleRepost)
}
