package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/printdesk/internal/audit"
	"github.com/crucial707/printdesk/internal/config"
	"github.com/crucial707/printdesk/internal/handlers"
	"github.com/crucial707/printdesk/internal/middleware"
	"github.com/crucial707/printdesk/internal/models"
	"github.com/crucial707/printdesk/internal/report"
	"github.com/crucial707/printdesk/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newPipeline builds the audit pipeline over the resource tables and audit_logs.
func newPipeline(db *sql.DB, cfg config.Config) *audit.Pipeline {
	return audit.NewPipeline(repo.NewSnapshotRepo(db), repo.NewAuditRepo(db), cfg.AuditTimeout, slog.Default())
}

func newRouter(db *sql.DB, cfg config.Config, pipeline *audit.Pipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	secret := []byte(cfg.JWTSecret)
	userRepo := repo.NewUserRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Secret: secret, TTL: time.Duration(cfg.JWTExpireHours) * time.Hour}
	machineHandler := &handlers.MachineHandler{Repo: repo.NewMachineRepo(db)}
	ticketHandler := &handlers.TicketHandler{Repo: repo.NewTicketRepo(db)}
	userHandler := &handlers.UserHandler{Repo: userRepo}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo, Reports: report.NewService(auditRepo, cfg.Location())}

	// ===== Probes =====
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("readiness check failed", "error", err)
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// ===== Auth =====
	r.With(middleware.AuthRateLimiter().Middleware).Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(secret))

		r.Get("/auth/me", authHandler.Me)

		// ===== Audit log (read side) =====
		r.Get("/audit-logs", auditHandler.ListAudit)
		r.Get("/audit-logs/{id}/changes", auditHandler.Changes)
		r.Group(func(r chi.Router) {
			if cfg.AuditExportAdminOnly {
				r.Use(middleware.RequireRole(models.RoleAdmin))
			}
			r.Get("/audit-logs/export/pdf", auditHandler.ExportPDF)
			r.Get("/audit-logs/export/excel", auditHandler.ExportExcel)
		})

		// ===== Audited resources =====
		// Flat patterns: the audit middleware runs on the matched route and needs {id}.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Audit(pipeline))

			r.Get("/machines", machineHandler.List)
			r.Post("/machines", machineHandler.Create)
			r.Get("/machines/{id}", machineHandler.Get)
			r.Put("/machines/{id}", machineHandler.Update)
			r.Patch("/machines/{id}", machineHandler.Update)
			r.Delete("/machines/{id}", machineHandler.Delete)

			r.Get("/tickets", ticketHandler.List)
			r.Post("/tickets", ticketHandler.Create)
			r.Get("/tickets/{id}", ticketHandler.Get)
			r.Put("/tickets/{id}", ticketHandler.Update)
			r.Patch("/tickets/{id}", ticketHandler.Update)
			r.Delete("/tickets/{id}", ticketHandler.Delete)

			r.Get("/users", userHandler.ListUsers)
			r.Get("/users/{id}", userHandler.GetUser)
		})

		// User management is for administrators only; the role check runs before auditing.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))
			r.Use(middleware.Audit(pipeline))

			r.Post("/users", userHandler.CreateUser)
			r.Put("/users/{id}", userHandler.UpdateUser)
			r.Patch("/users/{id}", userHandler.UpdateUser)
			r.Delete("/users/{id}", userHandler.DeleteUser)
		})
	})

	return r
}
