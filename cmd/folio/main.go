package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/foliocms/folio/internal/app"
	"github.com/foliocms/folio/internal/auth"
	"github.com/foliocms/folio/internal/content/achievements"
	"github.com/foliocms/folio/internal/content/messages"
	"github.com/foliocms/folio/internal/content/posts"
	"github.com/foliocms/folio/internal/content/profile"
	"github.com/foliocms/folio/internal/content/projects"
	"github.com/foliocms/folio/internal/content/skills"
	"github.com/foliocms/folio/internal/content/testimonials"
	"github.com/foliocms/folio/internal/observability"
	"github.com/foliocms/folio/internal/platform/cache"
	"github.com/foliocms/folio/internal/platform/db"
	"github.com/foliocms/folio/internal/shared"
	"github.com/foliocms/folio/internal/site"
	"github.com/foliocms/folio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	if cfg.UsesDefaultSessionSecret() {
		logger.Warn("SESSION_SECRET not set, using insecure development default")
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "folio_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, cfg.BootstrapAdminPassword)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	profileRepo := profile.NewRepository(pool)
	skillsRepo := skills.NewRepository(pool)
	projectsRepo := projects.NewRepository(pool)
	postsRepo := posts.NewRepository(pool)
	achievementsRepo := achievements.NewRepository(pool)
	testimonialsRepo := testimonials.NewRepository(pool)
	messagesRepo := messages.NewRepository(pool)

	notifier := jobs.NewContactNotifier(asynqClient, cfg.ContactInbox)
	messagesService := messages.NewService(messagesRepo, notifier)
	postsService := posts.NewService(postsRepo)

	siteService := site.NewService(profileRepo, skillsRepo, projectsRepo, postsRepo, achievementsRepo, testimonialsRepo, redisClient, 5*time.Minute)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		SessionManager:      sessionManager,
		Users:               authService,
		AuthHandler:         authHandler,
		ProfileHandler:      profile.NewHandler(logger, profileRepo, auditLogger),
		SkillsHandler:       skills.NewHandler(logger, skillsRepo, auditLogger),
		ProjectsHandler:     projects.NewHandler(logger, projectsRepo, auditLogger),
		PostsHandler:        posts.NewHandler(logger, postsService, auditLogger),
		AchievementsHandler: achievements.NewHandler(logger, achievementsRepo, auditLogger),
		TestimonialsHandler: testimonials.NewHandler(logger, testimonialsRepo, auditLogger),
		MessagesHandler:     messages.NewHandler(logger, messagesService, auditLogger),
		SiteHandler:         site.NewHandler(logger, siteService),
		SiteService:         siteService,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
