package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Migration-Dashboard/internal/migrationapi"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
)

// VersionBuilder provides a fluent interface for creating migration version records.
//
// Example usage:
//
//	v := testutil.NewVersion("003").
//	    WithDescription("add index").
//	    Pending().
//	    Build()
type VersionBuilder struct {
	record migrationapi.VersionRecord
}

// NewVersion creates an applied, rollback-able version with sensible defaults.
func NewVersion(id string) *VersionBuilder {
	applied := migrationapi.Timestamp{Time: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)}
	return &VersionBuilder{record: migrationapi.VersionRecord{
		ID:            id,
		Description:   "Test migration " + id,
		Author:        "dev",
		Filename:      fmt.Sprintf("V%s__test_migration.sql", id),
		Status:        migrationapi.StatusApplied,
		RiskLevel:     "low",
		AppliedAt:     &applied,
		CanRollbackTo: true,
	}}
}

func (b *VersionBuilder) WithDescription(desc string) *VersionBuilder {
	b.record.Description = desc
	return b
}

func (b *VersionBuilder) WithAuthor(author string) *VersionBuilder {
	b.record.Author = author
	return b
}

func (b *VersionBuilder) WithRisk(level string) *VersionBuilder {
	b.record.RiskLevel = level
	return b
}

// AppliedAt sets the apply timestamp.
func (b *VersionBuilder) AppliedAt(t time.Time) *VersionBuilder {
	ts := migrationapi.Timestamp{Time: t}
	b.record.AppliedAt = &ts
	return b
}

// Pending marks the version as not yet applied and not a rollback target.
func (b *VersionBuilder) Pending() *VersionBuilder {
	b.record.Status = migrationapi.StatusPending
	b.record.AppliedAt = nil
	b.record.CanRollbackTo = false
	return b
}

// Failed marks the version as failed.
func (b *VersionBuilder) Failed() *VersionBuilder {
	b.record.Status = migrationapi.StatusFailed
	b.record.CanRollbackTo = false
	return b
}

// NotRollbackTarget excludes the version from rollback targets.
func (b *VersionBuilder) NotRollbackTarget() *VersionBuilder {
	b.record.CanRollbackTo = false
	return b
}

func (b *VersionBuilder) Build() migrationapi.VersionRecord {
	return b.record
}

// VersionsOf wraps records in a VersionsResponse with consistent counts.
func VersionsOf(records ...migrationapi.VersionRecord) migrationapi.VersionsResponse {
	resp := migrationapi.VersionsResponse{Versions: records, TotalCount: len(records)}
	for _, r := range records {
		switch r.Status {
		case migrationapi.StatusApplied:
			resp.AppliedCount++
		case migrationapi.StatusPending:
			resp.PendingCount++
		}
	}
	if resp.Versions == nil {
		resp.Versions = []migrationapi.VersionRecord{}
	}
	return resp
}

// StatusOf builds a status response with the given number of pending migrations.
func StatusOf(applied, pending int) migrationapi.StatusResponse {
	return migrationapi.StatusResponse{
		PendingMigrations: pending,
		AppliedMigrations: applied,
		TotalMigrations:   applied + pending,
	}
}

// NewBackup creates a backup record of the given size taken at createdAt.
func NewBackup(filename string, size int64, createdAt time.Time) migrationapi.BackupRecord {
	return migrationapi.BackupRecord{
		Filename:  filename,
		Size:      size,
		CreatedAt: migrationapi.Timestamp{Time: createdAt},
		Type:      "manual",
	}
}

// ActivityBuilder provides a fluent interface for creating stored activity records.
type ActivityBuilder struct {
	activity model.Activity
}

// NewActivity creates a succeeded apply activity recorded now.
func NewActivity() *ActivityBuilder {
	return &ActivityBuilder{activity: model.Activity{
		ID:        uuid.New().String(),
		Action:    model.ActionApply,
		Status:    model.ActivitySucceeded,
		Detail:    "Applied 1 migration",
		CreatedAt: time.Now().UTC(),
	}}
}

func (b *ActivityBuilder) WithAction(action model.Action) *ActivityBuilder {
	b.activity.Action = action
	return b
}

func (b *ActivityBuilder) WithStatus(status model.ActivityStatus) *ActivityBuilder {
	b.activity.Status = status
	return b
}

func (b *ActivityBuilder) WithDetail(detail string) *ActivityBuilder {
	b.activity.Detail = detail
	return b
}

func (b *ActivityBuilder) At(t time.Time) *ActivityBuilder {
	b.activity.CreatedAt = t
	return b
}

// Build stores the activity in the database and returns it.
func (b *ActivityBuilder) Build(t *testing.T, db *sql.DB) model.Activity {
	t.Helper()

	if err := repository.NewActivityRepository(db).InsertActivity(t.Context(), b.activity); err != nil {
		t.Fatalf("Failed to create test activity: %v", err)
	}
	return b.activity
}
