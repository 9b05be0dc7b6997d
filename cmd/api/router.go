package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assetflow/assetflow/internal/config"
	"github.com/assetflow/assetflow/internal/handlers"
	"github.com/assetflow/assetflow/internal/middleware"
	"github.com/assetflow/assetflow/internal/repo"
	"github.com/assetflow/assetflow/internal/service"
)

// newRouter wires repos, the deletion-request service, handlers, and the
// middleware chain into the API router.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(database)
	auditRepo := repo.NewAuditRepo(database)
	refDataRepo := repo.NewRefDataRepo(database)
	svc := service.New(database)

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Secret: []byte(cfg.JWTSecret), ExpireHours: cfg.JWTExpireHours}
	userHandler := &handlers.UserHandler{Repo: userRepo, AuditRepo: auditRepo}
	assetHandler := &handlers.AssetHandler{Repo: svc.Assets, AuditRepo: auditRepo, Service: svc}
	requestHandler := &handlers.RequestHandler{Service: svc}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}
	refDataHandler := &handlers.RefDataHandler{Repo: refDataRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware([]byte(cfg.JWTSecret)))

		r.Get("/assets", assetHandler.ListAssets)
		r.Post("/assets", assetHandler.CreateAsset)
		r.Get("/assets/{id}", assetHandler.GetAsset)
		r.Put("/assets/{id}", assetHandler.UpdateAsset)
		r.Delete("/assets/{id}", assetHandler.DeleteAsset)

		r.Get("/requests", requestHandler.ListRequests)
		r.Post("/requests", requestHandler.SubmitRequest)
		r.Get("/requests/{id}", requestHandler.GetRequest)
		r.Post("/requests/{id}/cancel", requestHandler.CancelRequest)
		r.Post("/requests/{id}/approve", requestHandler.ApproveRequest)
		r.Post("/requests/{id}/reject", requestHandler.RejectRequest)

		r.Get("/audit", auditHandler.ListAudit)

		r.Get("/categories", refDataHandler.ListCategories)
		r.Post("/categories", refDataHandler.CreateCategory)
		r.Get("/departments", refDataHandler.ListDepartments)
		r.Post("/departments", refDataHandler.CreateDepartment)

		r.Get("/users", userHandler.ListUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{id}", userHandler.GetUser)
		r.Put("/users/{id}/role", userHandler.UpdateUserRole)
	})

	return r
}
