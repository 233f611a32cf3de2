package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/api"
	"github.com/ndewijer/Migration-Dashboard/internal/api/page"
	"github.com/ndewijer/Migration-Dashboard/internal/app"
	"github.com/ndewijer/Migration-Dashboard/internal/config"
	"github.com/ndewijer/Migration-Dashboard/internal/logging"
	"github.com/ndewijer/Migration-Dashboard/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logging.Initialize(cfg.Log.Level, cfg.Log.Format)

	a, err := app.Open(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}
	defer a.Close()

	log.WithFields(logrus.Fields{
		"database": cfg.Database.Path,
		"api":      cfg.Dashboard.APIBase,
		"version":  version.Version,
	}).Info("Migration dashboard starting")

	view := page.NewView()
	dash := a.NewDashboard(view)
	defer dash.Close()

	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.Dashboard.RequestTimeout)
	dash.Init(initCtx)
	cancelInit()

	router := api.NewRouter(api.Dependencies{
		Actions:         dash,
		View:            view,
		ActivityService: a.ActivityService,
		SystemService:   a.SystemService,
		Log:             log,
	}, cfg)

	// Actions wait on the migration API, so writes may take as long as a request.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Dashboard.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
