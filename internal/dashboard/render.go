package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Migration-Dashboard/internal/migrationapi"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// StatusTone maps a migration status to its tone and icon name.
// Anything that is neither applied nor pending is shown as a failure.
func StatusTone(status migrationapi.VersionStatus) (model.Tone, string) {
	switch status {
	case migrationapi.StatusApplied:
		return model.ToneSuccess, "check-circle"
	case migrationapi.StatusPending:
		return model.ToneWarning, "clock"
	default:
		return model.ToneDanger, "times-circle"
	}
}

// ApplyButtonFor returns the apply action state for the given number of pending migrations.
func ApplyButtonFor(pending int) model.ApplyButton {
	if pending > 0 {
		return model.ApplyButton{Enabled: true, Label: fmt.Sprintf("Apply %d Pending", pending)}
	}
	return model.ApplyButton{Enabled: false, Label: "All Up to Date"}
}

func versionRows(versions []migrationapi.VersionRecord, loc *time.Location) []model.VersionRow {
	rows := make([]model.VersionRow, 0, len(versions))
	for _, v := range versions {
		tone, icon := StatusTone(v.Status)

		appliedAt := model.NotAppliedText
		if v.AppliedAt != nil && !v.AppliedAt.IsZero() {
			appliedAt = formatDateTime(v.AppliedAt.InZone(loc), loc)
		}

		rows = append(rows, model.VersionRow{
			ID:            v.ID,
			Title:         fmt.Sprintf("Migration %s: %s", v.ID, v.Description),
			Author:        v.Author,
			Filename:      v.Filename,
			Status:        string(v.Status),
			StatusTone:    tone,
			StatusIcon:    icon,
			RiskLevel:     v.RiskLevel,
			RiskBadge:     strings.ToUpper(v.RiskLevel),
			AppliedAt:     appliedAt,
			CanRollbackTo: v.CanRollbackTo,
		})
	}
	return rows
}

func rollbackOptions(versions []migrationapi.VersionRecord) []model.Option {
	options := make([]model.Option, 0, len(versions))
	for _, v := range versions {
		if !v.CanRollbackTo {
			continue
		}
		options = append(options, model.Option{
			Value: v.ID,
			Label: fmt.Sprintf("%s - %s (%s)", v.ID, v.Description, v.Author),
		})
	}
	return options
}

func backupRows(backups []migrationapi.BackupRecord, loc *time.Location) []model.BackupRow {
	rows := make([]model.BackupRow, 0, len(backups))
	for _, b := range backups {
		rows = append(rows, model.BackupRow{
			Filename:  b.Filename,
			Size:      FormatFileSize(b.Size),
			CreatedAt: formatDateTime(b.CreatedAt.InZone(loc), loc),
			Type:      b.Type,
		})
	}
	return rows
}

func backupOptions(backups []migrationapi.BackupRecord, loc *time.Location) []model.Option {
	options := make([]model.Option, 0, len(backups))
	for _, b := range backups {
		options = append(options, model.Option{
			Value: b.Filename,
			Label: fmt.Sprintf("%s (%s, %s)", b.Filename, FormatFileSize(b.Size), formatDate(b.CreatedAt.InZone(loc), loc)),
		})
	}
	return options
}

func countsFrom(versions migrationapi.VersionsResponse, status migrationapi.StatusResponse, backups migrationapi.BackupsResponse) model.DashboardCounts {
	return model.DashboardCounts{
		AppliedCount:      versions.AppliedCount,
		PendingCount:      versions.PendingCount,
		TotalCount:        versions.TotalCount,
		PendingMigrations: status.PendingMigrations,
		BackupCount:       len(backups.Backups),
	}
}
