package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/taskapi/internal/auth"
	"github.com/redmonkez12/taskapi/internal/config"
	"github.com/redmonkez12/taskapi/internal/httputil"
	"github.com/redmonkez12/taskapi/internal/logging"
	"github.com/redmonkez12/taskapi/internal/ratelimit"
	"github.com/redmonkez12/taskapi/internal/task"
)

// Handlers groups the endpoint handlers the router mounts
type Handlers struct {
	Auth  *auth.Handler
	Tasks *task.Handler
}

// NewRouter creates and configures the HTTP router. Every route is mounted
// under cfg.Server.AppPath.
func NewRouter(cfg *config.Config, handlers Handlers, authMiddleware *auth.Middleware, limiter ratelimit.Limiter, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: false,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	mountPoint := cfg.Server.AppPath
	r.Route(mountPoint, func(r chi.Router) {
		r.Get("/health", handleHealth)

		// Swagger UI - only in development
		if cfg.Server.IsDevelopment() {
			logger.Info("swagger UI enabled", "path", cfg.Server.Prefix()+"/swagger/")
			r.Get("/swagger/*", httpSwagger.WrapHandler)
		}

		r.Route("/auth", func(r chi.Router) {
			r.With(ratelimit.Middleware(limiter, "register")).Post("/register", handlers.Auth.Register)
			r.With(ratelimit.Middleware(limiter, "login")).Post("/login", handlers.Auth.Login)

			r.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Get("/tasks", handlers.Tasks.List)
			r.Post("/tasks", handlers.Tasks.Create)
			r.Patch("/tasks/{id}", handlers.Tasks.Update)
			r.Delete("/tasks/{id}", handlers.Tasks.Delete)
		})
	})

	return r
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	OK bool `json:"ok"`
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, HealthResponse{OK: true}, http.StatusOK)
}
