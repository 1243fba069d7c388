package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SoulMinT05/threadsnet/internal/api/middleware"
	"github.com/SoulMinT05/threadsnet/internal/core/engagement"
	"github.com/SoulMinT05/threadsnet/internal/core/feeds"
	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/reposts"
)

// Services holds everything the router dispatches to
type Services struct {
	Posts      posts.Service
	Engagement engagement.Service
	Reposts    reposts.Service
	Feeds      feeds.Service
}

// RouterOptions configures the shared middleware stack
type RouterOptions struct {
	AllowedOrigins []string
	// RequestLogging enables chi's request logger
	RequestLogging bool
}

// NewRouter builds the HTTP handler with every route mounted
func NewRouter(services Services, authMiddleware *middleware.JWTAuthMiddleware, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	if opts.RequestLogging {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	RegisterFeedRoutes(r, services.Feeds, authMiddleware)
	RegisterPostRoutes(r, services.Posts, authMiddleware)
	RegisterEngagementRoutes(r, services.Engagement, authMiddleware)
	RegisterRepostRoutes(r, services.Reposts, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
