// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/yumshare/yumshare-go/internal/auth"
	"github.com/yumshare/yumshare-go/internal/config"
	"github.com/yumshare/yumshare-go/internal/handler"
	"github.com/yumshare/yumshare-go/internal/logging"
	"github.com/yumshare/yumshare-go/internal/middleware"
	"github.com/yumshare/yumshare-go/internal/render"
	"github.com/yumshare/yumshare-go/internal/service"
	"github.com/yumshare/yumshare-go/internal/session"
	"github.com/yumshare/yumshare-go/internal/store"
	"github.com/yumshare/yumshare-go/internal/version"
	"github.com/yumshare/yumshare-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "YumShare - recipe sharing backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_JWT_SECRET        API token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_DB_PATH           SQLite database path (default: ./data/yumshare.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_UPLOADS_DIR       Recipe image directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_ADMIN_USERNAME    Seed admin account username (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  YUM_ADMIN_PASSWORD    Seed admin account password (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data and upload directories exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed the admin account when configured
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Session manager for the admin console
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Token issuer for the JSON API
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)

	// Renderer with embedded console templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	media := service.NewMediaService(cfg.UploadsDir)

	authAPI := handler.NewAuthAPIHandler(db, tokens)
	userAPI := handler.NewUserAPIHandler(db)
	recipeAPI := handler.NewRecipeAPIHandler(db, media)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager)
	adminHandler := handler.NewAdminHandler(db, renderer, sessionManager)

	apiLimiter := middleware.NewRateLimiter(10, 20)
	loginLimiter := middleware.NewRateLimiter(1, 5)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())

		r.Post("/signup", authAPI.Signup)
		r.Post("/login", authAPI.Login)

		r.Route("/user", func(r chi.Router) {
			r.Use(middleware.TokenAuth(tokens))
			r.Get("/profile", userAPI.Profile)
			r.Patch("/updateName", userAPI.UpdateName)
			r.Patch("/changePassword", userAPI.ChangePassword)
		})

		r.Route("/recipe", func(r chi.Router) {
			r.Use(middleware.TokenAuth(tokens))
			r.Get("/recipelist", recipeAPI.List)
			r.Get("/search", recipeAPI.Search)
			r.Post("/add", recipeAPI.Add)
			r.Put("/edit/{id}", recipeAPI.Edit)
			r.Get("/details/{id}", recipeAPI.Details)
			r.Delete("/delete/{id}", recipeAPI.Delete)
		})
	})

	// Admin console
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

		r.Get(handler.RouteRoot, adminHandler.Root)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginLimiter.HTMLMiddleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))

			r.Get(handler.RouteHome, adminHandler.Home)
			r.Get("/mostviewedrecipe", adminHandler.MostViewed)
			r.Get(handler.RouteRecipeList, adminHandler.RecipeList)
			r.Get(handler.RouteUserList, adminHandler.UserList)
			r.Post("/userlist/{id}/toggleBlock", adminHandler.ToggleBlock)
			r.Get("/recipedetails/{id}", adminHandler.RecipeDetails)
			r.Post("/deleterecipe/{id}", adminHandler.DeleteRecipe)
			r.Get("/userprofile/{id}", adminHandler.UserProfile)
		})
	})

	// Uploaded recipe images; files never change once written
	r.With(middleware.StaticCache(604800)).Get("/uploads/{filename}", handler.Uploads(cfg.UploadsDir))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // allow for image uploads on slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
