package service

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/Migration-Dashboard/internal/database"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db      *sql.DB
	apiBase string
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, apiBase string) *SystemService {
	return &SystemService{
		db:      db,
		apiBase: apiBase,
	}
}

// CheckHealth checks the health of the local history database
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the local schema version and
// the migration API the dashboard talks to.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  fmt.Sprintf("%d", dbVersion),
		APIBase:    s.apiBase,
	}, nil
}
