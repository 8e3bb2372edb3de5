package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/reelplan/reelplan/internal/metrics"
	"github.com/reelplan/reelplan/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// ReelPlan API.
//
// Parameters:
//
//	authHandler   - handler for registration, login, and logout
//	recordHandler - handler for owner-scoped calendar documents
//	auth          - bearer-token authenticator for protected routes
//	limiter       - per-client rate limiter
//	collector     - Prometheus request metrics
//	gatherer      - registry backing the /metrics scrape endpoint
//	logger        - structured logger for request logging middleware
//
// Routes:
//
//	POST   /api/register                          → authHandler.Register
//	POST   /api/login                             → authHandler.Login
//	POST   /api/logout                            → authHandler.Logout
//	GET    /api/users/{owner}/calendar            → recordHandler.List   (token auth)
//	PUT    /api/users/{owner}/calendar/{docID}    → recordHandler.Put    (token auth)
//	DELETE /api/users/{owner}/calendar/{docID}    → recordHandler.Delete (token auth)
//	GET    /metrics                               → Prometheus scrape
func NewRouter(
	authHandler *AuthHandler,
	recordHandler *RecordHandler,
	auth middleware.Authenticator,
	limiter *middleware.RateLimiter,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json when a
	// body is present
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Record request metrics, apply the per-client rate limit, and log
	// each request
	r.Use(collector.Middleware)
	r.Use(limiter.Middleware)
	r.Use(middleware.WithRequestLogging(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(auth))
			r.Route("/users/{owner}/calendar", func(r chi.Router) {
				r.Get("/", recordHandler.List)
				r.Put("/{docID}", recordHandler.Put)
				r.Delete("/{docID}", recordHandler.Delete)
			})
		})
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	return r
}
