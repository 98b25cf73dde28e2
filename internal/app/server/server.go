package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/org"
	"hrms/internal/domain/reports"
	"hrms/internal/domain/schedule"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	orghandler "hrms/internal/transport/http/handlers/org"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	schedulehandler "hrms/internal/transport/http/handlers/schedule"
	"hrms/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authStore := auth.NewStore(pool)
	orgSvc := org.NewService(pool)
	employeeSvc := employee.NewService(pool)
	scheduleSvc := schedule.NewService(pool)
	attendanceSvc := attendance.NewService(pool)
	leaveSvc := leave.NewService(pool)
	auditSvc := audit.New(pool)
	reportsSvc := reports.NewService(pool, cfg.ReportsDir)

	collector := metrics.New()

	jobsSvc := jobs.New(pool, cfg)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg).RegisterRoutes(r)
		orghandler.NewHandler(orgSvc, authStore).RegisterRoutes(r)
		employeehandler.NewHandler(employeeSvc, orgSvc, authStore).RegisterRoutes(r)
		schedulehandler.NewHandler(scheduleSvc, authStore).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, employeeSvc.Store, authStore).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, employeeSvc.Store, authStore).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, authStore).RegisterRoutes(r)
	})

	log.Printf("HRMS server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
