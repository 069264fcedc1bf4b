package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/content/achievements"
	"github.com/foliocms/folio/internal/content/messages"
	"github.com/foliocms/folio/internal/content/posts"
	"github.com/foliocms/folio/internal/content/profile"
	"github.com/foliocms/folio/internal/content/projects"
	"github.com/foliocms/folio/internal/content/skills"
	"github.com/foliocms/folio/internal/content/testimonials"
	"github.com/foliocms/folio/internal/observability"
	"github.com/foliocms/folio/internal/shared"
	"github.com/foliocms/folio/internal/site"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Users          UserLoader

	AuthHandler         *auth.Handler
	ProfileHandler      *profile.Handler
	SkillsHandler       *skills.Handler
	ProjectsHandler     *projects.Handler
	PostsHandler        *posts.Handler
	AchievementsHandler *achievements.Handler
	TestimonialsHandler *testimonials.Handler
	MessagesHandler     *messages.Handler
	SiteHandler         *site.Handler
	SiteService         *site.Service

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Folio defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Users:          params.Users,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints get a tighter per-IP bucket.
		r.Group(func(r chi.Router) {
			r.Use(LoginRateLimit())
			params.AuthHandler.MountRoutes(r)
		})

		params.ProfileHandler.MountPublic(r)
		params.SkillsHandler.MountPublic(r)
		params.ProjectsHandler.MountPublic(r)
		params.PostsHandler.MountPublic(r)
		params.AchievementsHandler.MountPublic(r)
		params.TestimonialsHandler.MountPublic(r)
		params.MessagesHandler.MountPublic(r)
		params.SiteHandler.MountPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Use(invalidateSiteCache(params.SiteService, params.Logger))
			params.ProfileHandler.MountAdmin(r)
			params.SkillsHandler.MountAdmin(r)
			params.ProjectsHandler.MountAdmin(r)
			params.PostsHandler.MountAdmin(r)
			params.AchievementsHandler.MountAdmin(r)
			params.TestimonialsHandler.MountAdmin(r)
			params.MessagesHandler.MountAdmin(r)
		})
	})

	return r
}

// invalidateSiteCache drops the cached portfolio aggregate after admin
// writes so public reads never serve stale content.
func invalidateSiteCache(svc *site.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if svc == nil || r.Method == http.MethodGet {
				return
			}
			if err := svc.Invalidate(r.Context()); err != nil && logger != nil {
				logger.Warn("invalidate portfolio cache", slog.Any("error", err))
			}
		})
	}
}
