// Package server wires the application together: it owns the router, the
// database connection, and the dependency graph from repositories up to
// handlers. main.go only loads config and calls New + Start.
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

	"github.com/rohan/evite/internal/auth"
	"github.com/rohan/evite/internal/config"
	"github.com/rohan/evite/internal/handler"
	"github.com/rohan/evite/internal/mail"
	"github.com/rohan/evite/internal/middleware"
	sqliteRepo "github.com/rohan/evite/internal/repository/sqlite"
	"github.com/rohan/evite/internal/service"
)

// Server holds the router and the resources it must release on shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph. Each layer receives only what it
// needs: services get repository interfaces, handlers get services, and the
// handlers never see the database.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// setupRoutes configures middleware, wires the services, and maps routes.
//
// ROUTES:
//
//	GET  /                      → redirect to the invitation
//	GET  /static/*              → static assets
//	GET  /register, /login      → auth forms
//	POST /register, /login      → auth form submissions
//	GET  /logout                → drop the session
//	GET  /event/{id}            → invitation page
//	POST /event/{id}            → RSVP or comment submission
//	GET  /anonymous-rsvp/{id}   → walk-in RSVP form (QR target)
//	POST /anonymous-rsvp/{id}   → walk-in RSVP submission
//	GET  /rsvp-thanks/{id}      → post-RSVP thank-you page
//	GET  /calendar/{id}         → ICS download
//	GET  /event/{id}/qr         → share QR code (PNG)
//	GET  /admin/event/{id}      → host's edit form + guest list
//	POST /admin/event/{id}      → apply event edits
func (s *Server) setupRoutes() error {
	sessions := auth.NewSessionStore()

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	// Resolve the session cookie on every request; pages render differently
	// for signed-in guests but none of them block anonymous visitors except
	// the admin page, which checks on its own.
	s.router.Use(auth.WithUser(sessions))

	fileServer := http.FileServer(http.Dir(s.cfg.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	renderer, err := handler.NewRenderer(s.cfg.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	mailer := mail.New(mail.Config{
		Host:      s.cfg.SMTPHost,
		Port:      s.cfg.SMTPPort,
		Username:  s.cfg.SMTPUsername,
		Password:  s.cfg.SMTPPassword,
		FromName:  s.cfg.SMTPFromName,
		FromEmail: s.cfg.SMTPFromEmail,
	}, s.logger)
	if !mailer.Enabled() {
		s.logger.Warn("SMTP credentials not set — RSVP emails are disabled")
	}

	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db, s.db, passwords, s.logger)
	eventService := service.NewEventService(s.db, s.db, s.logger)
	rsvpService := service.NewRSVPService(s.db, s.db, s.db, mailer, s.cfg.BaseURL, s.logger)
	commentService := service.NewCommentService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, sessions, renderer, s.logger)
	eventHandler := handler.NewEventHandler(eventService, commentService, rsvpService, authService, renderer, s.logger)
	rsvpHandler := handler.NewRSVPHandler(eventService, rsvpService, renderer, s.logger)
	adminHandler := handler.NewAdminHandler(eventService, authService, renderer, s.logger)
	calendarHandler := handler.NewCalendarHandler(eventService, s.cfg.BaseURL, s.logger)

	// The app hosts a single invitation; the root is just a shortcut to it.
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/event/1", http.StatusSeeOther)
	})

	s.router.Get("/register", authHandler.HandleRegisterPage)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)

	s.router.Route("/event/{id}", func(r chi.Router) {
		r.Get("/", eventHandler.HandleView)
		r.Post("/", eventHandler.HandleSubmit)
		r.Get("/qr", calendarHandler.HandleQR)
	})

	s.router.Get("/anonymous-rsvp/{id}", rsvpHandler.HandleAnonymousPage)
	s.router.Post("/anonymous-rsvp/{id}", rsvpHandler.HandleAnonymousSubmit)
	s.router.Get("/rsvp-thanks/{id}", eventHandler.HandleThanks)
	s.router.Get("/calendar/{id}", calendarHandler.HandleICS)

	s.router.Get("/admin/event/{id}", adminHandler.HandleAdminPage)
	s.router.Post("/admin/event/{id}", adminHandler.HandleAdminUpdate)

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("url", s.cfg.BaseURL),
			slog.String("database", s.cfg.DBPath),
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
