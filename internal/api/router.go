package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Migration-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Migration-Dashboard/internal/api/page"
	"github.com/ndewijer/Migration-Dashboard/internal/config"
	"github.com/ndewijer/Migration-Dashboard/internal/service"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Actions         handlers.DashboardActions
	View            *page.View
	ActivityService *service.ActivityService
	SystemService   *service.SystemService
	Log             logrus.FieldLogger
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.NewLogger(deps.Log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	dashboardHandler := handlers.NewDashboardHandler(deps.View, deps.Log)
	r.Get("/", dashboardHandler.Page)

	r.Route("/actions", func(r chi.Router) {
		actionHandler := handlers.NewActionHandler(deps.Actions, deps.View, deps.Log)
		r.Post("/upload", actionHandler.Upload)
		r.Post("/apply", actionHandler.Apply)
		r.Post("/rollback", actionHandler.Rollback)
		r.Post("/backup", actionHandler.Backup)
		r.Post("/refresh", actionHandler.Refresh)
		r.Post("/prepare-rollback", actionHandler.PrepareRollback)
		r.Post("/use-backup", actionHandler.UseBackup)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", dashboardHandler.State)

		historyHandler := handlers.NewHistoryHandler(deps.ActivityService)
		r.Get("/history", historyHandler.History)

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(deps.SystemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})
	})

	return r
}
