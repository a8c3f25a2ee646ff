package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caskbook/internal/metrics"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RateLimits configures the per-IP limits on auth endpoints. Zero disables a limit.
type RateLimits struct {
	LoginPerMinute       int
	RegisterPerHour      int
	PasswordResetPerHour int
}

// RouterOptions configures NewRouter.
type RouterOptions struct {
	Tokens         TokenValidator
	AllowedOrigins []string
	RateLimits     RateLimits
	Logger         *zap.Logger
}

// NewRouter wires the middleware stack and mounts every route of s.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(corsMiddleware(opts.AllowedOrigins))
	}
	r.Use(BearerAuthMiddleware(opts.Tokens))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.Liveness)
	r.Get("/ready", s.Readiness)
	r.Get("/metrics", s.Metrics)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit(opts.RateLimits.RegisterPerHour, time.Hour)).Post("/register", s.Register)
			r.With(rateLimit(opts.RateLimits.LoginPerMinute, time.Minute)).Post("/login", s.Login)
			r.Post("/refresh", s.Refresh)
			r.Post("/logout", s.Logout)
			r.Get("/me", s.Me)
			r.Put("/password", s.ChangePassword)
			r.With(rateLimit(opts.RateLimits.PasswordResetPerHour, time.Hour)).
				Post("/password/reset", s.RequestPasswordReset)
		})

		r.Route("/bottles", func(r chi.Router) {
			r.Get("/", s.ListBottles)
			r.Post("/", s.CreateBottle)
			r.Get("/{id}", s.GetBottle)
			r.Put("/{id}", s.UpdateBottle)
			r.Delete("/{id}", s.DeleteBottle)
			r.Get("/{id}/similar", s.SimilarToBottle)
		})

		r.Route("/whiskies", func(r chi.Router) {
			r.Get("/", s.ListWhiskies)
			r.Post("/similar", s.SimilarWhiskies)
			r.Get("/{slug}", s.GetWhisky)
		})

		r.Route("/distilleries", func(r chi.Router) {
			r.Get("/", s.ListDistilleries)
			r.Get("/{slug}", s.GetDistillery)
			r.Get("/{slug}/whiskies", s.DistilleryWhiskies)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", s.ListWishlist)
			r.Post("/", s.AddToWishlist)
			r.Delete("/{id}", s.RemoveFromWishlist)
		})

		r.Get("/profile/taste", s.TasteProfile)
		r.Post("/flavor/suggest", s.SuggestFlavor)
	})

	return r
}
