package server

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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/domain/auth"
	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
	"github.com/Yamanxl9/employee-management-system/internal/domain/reports"
	"github.com/Yamanxl9/employee-management-system/internal/platform/config"
	"github.com/Yamanxl9/employee-management-system/internal/platform/db"
	audithandler "github.com/Yamanxl9/employee-management-system/internal/transport/http/handlers/audit"
	authhandler "github.com/Yamanxl9/employee-management-system/internal/transport/http/handlers/auth"
	directoryhandler "github.com/Yamanxl9/employee-management-system/internal/transport/http/handlers/directory"
	reportshandler "github.com/Yamanxl9/employee-management-system/internal/transport/http/handlers/reports"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/middleware"
)

// NewRouter wires stores, services and handlers onto the HTTP surface. The
// audit service is passed in because Run also hands it to the retention job;
// both sides must share one instance. Exported so tests can drive the full
// middleware chain.
func NewRouter(cfg config.Config, client *mongo.Client, database *mongo.Database, auditSvc *audit.Service, logger *slog.Logger) http.Handler {
	store := directory.NewStore(database)
	users := auth.NewStore(database)
	reportsSvc := reports.New(database, store)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	// Liveness always answers 200; the database field flips to degraded when
	// Mongo is unreachable so dashboards can tell the two apart.
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		database := "ok"
		if client == nil || db.Ping(r.Context(), client) != nil {
			database = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","database":"` + database + `"}`))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if client == nil || db.Ping(r.Context(), client) != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/test", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		authHandler := authhandler.NewHandler(users, auditSvc, cfg.JWTSecret, cfg.TokenTTL)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).
			Post("/login", authHandler.HandleLogin)
		r.Post("/verify-token", authHandler.HandleVerifyToken)

		r.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth)

			protected.Post("/logout", authHandler.HandleLogout)

			directoryHandler := directoryhandler.NewHandler(store, auditSvc)
			directoryHandler.RegisterRoutes(protected)

			reportsHandler := reportshandler.NewHandler(store, reportsSvc, auditSvc, cfg.ExportMaxRows)
			reportsHandler.RegisterRoutes(protected)

			auditHandler := audithandler.NewHandler(auditSvc)
			auditHandler.RegisterRoutes(protected)
		})
	})

	return router
}

func Run() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, database, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("mongo client setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	// A dead database degrades the process instead of killing it: statistics
	// report database_error and readiness stays unready until Mongo returns.
	if err := db.Ping(ctx, client); err != nil {
		logger.Warn("database unreachable at startup, continuing degraded", "error", err)
	} else {
		db.EnsureIndexes(ctx, database)
		if cfg.RunSeed {
			if err := db.Seed(ctx, database, cfg); err != nil {
				logger.Error("seed failed", "error", err)
				os.Exit(1)
			}
		}
	}

	auditSvc := audit.New(database, logger)
	auditSvc.StartRetention(ctx, cfg.AuditRetention, time.Hour)

	router := NewRouter(cfg, client, database, auditSvc, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
