// Course site server: course-city pages, quizzes and lead capture.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/cderp/coursesite/internal/api"
	"github.com/cderp/coursesite/internal/catalog"
	"github.com/cderp/coursesite/internal/config"
	"github.com/cderp/coursesite/internal/identity"
	"github.com/cderp/coursesite/internal/keepalive"
	"github.com/cderp/coursesite/internal/middleware"
	"github.com/cderp/coursesite/internal/page"
	"github.com/cderp/coursesite/internal/proxy"
	"github.com/cderp/coursesite/internal/quiz"
	"github.com/cderp/coursesite/internal/seo"
	"github.com/cderp/coursesite/internal/store"
	"github.com/cderp/coursesite/internal/view"
	"github.com/cderp/coursesite/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "base_url", cfg.BaseURL, "dev", cfg.IsDevelopment())

	cat, err := catalog.Open(cfg.CatalogDir)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err, "dir", cfg.CatalogDir)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "courses", len(cat.Courses()), "cities", len(cat.Cities()), "quizzes", len(cat.Quizzes()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	repo, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("Failed to initialize database", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "driver", cfg.StoreDriver)

	// Initialize services.
	resolver := page.NewResolver(cat)
	gen := seo.NewGenerator(cat, cfg.BaseURL, cfg.SiteName)
	sm := quiz.NewSessionManager()
	defer sm.CloseAll()

	// Initialize handlers.
	apiHandler := api.NewHandler(repo, cat, resolver, gen)
	healthHandler := api.NewHealthHandler(repo, cfg.Timeout.HealthCheck)
	proxyHandler := proxy.NewHandler(cfg.AhrefsUpstream, cfg.TawkUpstream, cfg.ProxyTimeout)
	wsHandler := quiz.NewWebSocketHandler(cat, repo, sm, cfg.AllowedOrigins, cfg.QuizTick)
	site := view.NewSite(cat, resolver, gen)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Redirects(cat))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(!cfg.IsDevelopment()))

	// Public routes.
	healthHandler.RegisterHealth(r)
	apiHandler.RegisterRoutes(r)
	proxyHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/quiz/{topic}", wsHandler.ServeHTTP)

	// Embedded static assets.
	r.With(middleware.CacheHeaders).Handle(web.Prefix+"*", web.StaticHandler())

	// HTML pages, including the course-city catch-all.
	site.RegisterRoutes(r)

	// WebSocket sessions outlive any write timeout, so none is set.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	keepalive.StartWorker(ctx, cfg)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout.Shutdown)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
