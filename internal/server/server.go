// Package server wires the application together: it owns the router, the
// database, and the dependency graph, and it runs the HTTP server with
// graceful shutdown.
//
// This is the composition root — every handler, service, and repository is
// constructed here (or in main) and nowhere else. Handlers never touch the
// database; services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/frediet/frediet/internal/auth"
	"github.com/frediet/frediet/internal/config"
	"github.com/frediet/frediet/internal/handler"
	"github.com/frediet/frediet/internal/middleware"
	sqliteRepo "github.com/frediet/frediet/internal/repository/sqlite"
	"github.com/frediet/frediet/internal/service"
)

// Server owns the router and the database connection. The database is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services (auth, meal, report) → handlers → routes
//
// Each layer receives only what it needs; the handler layer gets services,
// never the repository or the raw connection.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes builds middleware and routes.
//
// ROUTE MAP:
//
//	GET  /                  → redirect to /dashboard or /login
//	GET  /static/*          → stylesheet and scripts
//	GET/POST /login         → login form
//	GET/POST /register      → registration form
//	GET  /logout            → clear session
//	GET  /dashboard         → daily meals + totals        (page guard)
//	GET  /range             → paginated range summary     (page guard)
//	POST   /api/meals       → add a meal, JSON            (API guard)
//	DELETE /api/meals/{id}  → delete a meal, JSON         (API guard)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	mealService := service.NewMealService(s.db, s.logger)
	reportService := service.NewReportService(s.db, s.logger)

	tmpl, err := handler.NewTemplates(s.config.TemplateDir, s.logger,
		"login", "register", "dashboard", "range")
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	authHandler := handler.NewAuthHandler(authService, tokens, tmpl, s.logger)
	pageHandler := handler.NewPageHandler(authService, mealService, reportService,
		tmpl, s.config.Location, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)

	// Public pages.
	s.router.Get("/", authHandler.HandleIndex)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/logout", authHandler.HandleLogout)

	// Protected pages: unauthenticated browsers are sent to /login.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequirePage(tokens))
		r.Get("/dashboard", pageHandler.HandleDashboard)
		r.Get("/range", pageHandler.HandleRange)
	})

	// JSON API: unauthenticated callers get 401, not a redirect.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAPI(tokens))
		r.Post("/meals", mealHandler.HandleAddMeal)
		r.Delete("/meals/{id}", mealHandler.HandleDeleteMeal)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up
// to 30 seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("timezone", s.config.Location.String()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
