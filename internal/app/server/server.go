package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/config"
	"personnel/internal/platform/db"
	"personnel/internal/platform/jobs"
	"personnel/internal/platform/logging"
	"personnel/internal/platform/metrics"
	audithandler "personnel/internal/transport/http/handlers/audit"
	authhandler "personnel/internal/transport/http/handlers/auth"
	employeeshandler "personnel/internal/transport/http/handlers/employees"
	reportshandler "personnel/internal/transport/http/handlers/reports"
	"personnel/internal/transport/http/middleware"
)

type App struct {
	Config    config.Config
	DB        *pgxpool.Pool
	Employees *employee.Service
	Metrics   *metrics.Collector
	Jobs      *jobs.Service
	Router    http.Handler
}

type idempotencyStore interface {
	middleware.IdempotencyKeys
	jobs.Purger
}

type auditLog interface {
	audit.Log
	jobs.Purger
}

type stores struct {
	employees   employee.StoreAPI
	audit       auditLog
	idempotency idempotencyStore
}

// New connects the configured store, applies migrations and seed data, and
// builds the router. Callers own the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	var st stores
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		st = stores{
			employees:   employee.NewMemoryStore(),
			audit:       audit.NewMemory(),
			idempotency: middleware.NewMemoryIdempotencyStore(),
		}
	default:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		app.DB = pool

		if cfg.RunMigrations {
			applied, err := db.Migrate(ctx, pool, db.Migrations())
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
			if len(applied) > 0 {
				slog.Info("migrations applied", "versions", applied)
			}
		}
		st = stores{
			employees:   employee.NewStore(pool),
			audit:       audit.New(pool),
			idempotency: middleware.NewIdempotencyStore(pool),
		}
	}

	app.Employees = employee.NewService(st.employees)
	seeded, err := db.Seed(ctx, app.Employees, cfg.SeedFile)
	if err != nil {
		app.Close()
		return nil, err
	}
	if seeded > 0 {
		slog.Info("seed data imported", "file", cfg.SeedFile, "rows", seeded)
	}

	app.Metrics = metrics.New()
	app.Jobs = newJobs(cfg, st)
	app.Router = app.routes(st)
	return app, nil
}

func newJobs(cfg config.Config, st stores) *jobs.Service {
	svc := jobs.New()
	if cfg.IdempotencyTTL > 0 {
		svc.Every(jobs.JobIdempotencyPurge, cfg.SweepInterval, jobs.Retention(st.idempotency, cfg.IdempotencyTTL, time.Now))
	}
	if cfg.AuditRetention > 0 {
		svc.Every(jobs.JobAuditRetention, cfg.SweepInterval, jobs.Retention(st.audit, cfg.AuditRetention, time.Now))
	}
	return svc
}

func (a *App) routes(st stores) http.Handler {
	cfg := a.Config
	perms := auth.StaticPermissions{}

	var local *auth.UserContext
	if !cfg.AuthEnabled() {
		slog.Warn("JWT_SECRET is empty; API requests run as the local HR user")
		local = &auth.LocalUser
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Metrics(a.Metrics))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := a.DB.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", a.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, local))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authHandler := authhandler.NewHandler(auth.NewService(cfg.JWTSecret, cfg.AdminUsername, cfg.AdminPasswordHash, cfg.TokenTTL))
		authHandler.RegisterRoutes(r)
		authHandler.RegisterProtectedRoutes(r)

		employeesHandler := employeeshandler.NewHandler(a.Employees, st.audit, st.idempotency, a.Metrics, perms, employeeshandler.Limits{
			DefaultPageSize: cfg.DefaultPageSize,
			MaxPageSize:     cfg.MaxPageSize,
			MaxBodyBytes:    cfg.MaxBodyBytes,
			MaxUploadBytes:  cfg.MaxUploadBytes,
		})
		employeesHandler.RegisterRoutes(r)

		auditHandler := audithandler.NewHandler(st.audit, perms)
		auditHandler.RegisterRoutes(r)

		reportsHandler := reportshandler.NewHandler(a.Employees, st.audit, a.Jobs, perms)
		reportsHandler.RegisterRoutes(r)
	})

	return router
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Run loads configuration, serves until SIGINT or SIGTERM, then drains
// in-flight requests.
func Run() error {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("personnel server listening", "addr", cfg.Addr, "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
