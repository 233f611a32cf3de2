// Package app wires the local store, services and the migration API client
// shared by the server and the CLI.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/config"
	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/database"
	"github.com/ndewijer/Migration-Dashboard/internal/migrationapi"
	"github.com/ndewijer/Migration-Dashboard/internal/notify"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
	"github.com/ndewijer/Migration-Dashboard/internal/service"
)

// App holds long-lived dependencies.
type App struct {
	Config *config.Config
	Log    logrus.FieldLogger

	DB              *sql.DB
	API             *migrationapi.HTTPClient
	Publisher       notify.Publisher
	ActivityService *service.ActivityService
	TokenService    *service.TokenService
	SystemService   *service.SystemService
}

// Open opens and migrates the local database and builds all services.
func Open(cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db, log); err != nil {
		db.Close()
		return nil, err
	}

	var publisher notify.Publisher = notify.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.WithFields(logrus.Fields{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic}).Info("Publishing activity to Kafka")
	}

	tokenService, err := service.NewTokenService(repository.NewSettingRepository(db), cfg.Token.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		Config:          cfg,
		Log:             log,
		DB:              db,
		API:             migrationapi.NewHTTPClient(cfg.Dashboard.APIBase, cfg.Dashboard.RequestTimeout, log),
		Publisher:       publisher,
		ActivityService: service.NewActivityService(repository.NewActivityRepository(db), publisher, log),
		TokenService:    tokenService,
		SystemService:   service.NewSystemService(db, cfg.Dashboard.APIBase),
	}, nil
}

// NewDashboard creates a dashboard controller rendering into view, recording
// activity and using the remembered token when the vault is enabled.
func (a *App) NewDashboard(view dashboard.View, opts ...dashboard.ClientOption) *dashboard.Client {
	base := []dashboard.ClientOption{
		dashboard.WithActivityRecorder(a.ActivityService),
		dashboard.WithLogger(a.Log),
		dashboard.WithRefreshInterval(a.Config.Dashboard.RefreshInterval),
		dashboard.WithUploadRefreshDelay(a.Config.Dashboard.UploadRefreshDelay),
	}
	if a.TokenService.Enabled() {
		base = append(base, dashboard.WithTokenSource(a.TokenService))
	}
	return dashboard.New(a.API, view, append(base, opts...)...)
}

// Close releases the publisher and the database.
func (a *App) Close() error {
	return errors.Join(a.Publisher.Close(), a.DB.Close())
}
