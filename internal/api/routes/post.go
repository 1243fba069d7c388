package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SoulMinT05/threadsnet/internal/api/handlers/post"
	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// RegisterPostRoutes registers the post lifecycle endpoints
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	listHandler := post.NewListHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	r.With(authMiddleware.RequireAuth).Post("/api/posts", createHandler.HandleCreate)

	// Admin/debug listing of every post
	r.With(authMiddleware.RequireAuth).Get("/api/posts", listHandler.HandleList)

	// Public read; counts a view
	r.With(authMiddleware.OptionalAuth).Get("/api/posts/{postID}", getHandler.HandleGet)

	// Author-only mutations
	r.With(authMiddleware.RequireAuth).Put("/api/posts/{postID}", updateHandler.HandleUpdate)
	r.With(authMiddleware.RequireAuth).Delete("/api/posts/{postID}", deleteHandler.HandleDelete)
}
