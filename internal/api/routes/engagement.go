package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers/engagement"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	engagementCore "github.com/SoulMinT05/threadsnet/internal/core/engagement"
)

// RegisterEngagementRoutes registers like, save and reply endpoints
func RegisterEngagementRoutes(r chi.Router, service engagementCore.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	toggleHandler := engagement.NewToggleHandler(service)
	replyHandler := engagement.NewReplyHandler(service)

	r.With(authMiddleware.RequireAuth).Put("/api/posts/{postID}/like", toggleHandler.HandleLike)
	r.With(authMiddleware.RequireAuth).Put("/api/posts/{postID}/save", toggleHandler.HandleSave)
	r.With(authMiddleware.RequireAuth).Put("/api/posts/{postID}/reply", replyHandler.HandleReply)
}
