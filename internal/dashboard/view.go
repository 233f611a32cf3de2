package dashboard

import (
	"context"
	"time"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// View receives everything the dashboard renders. Implementations must be safe
// for concurrent use: the periodic refresh may render while a user action runs.
type View interface {
	// RenderCounts updates the summary cards, the apply action and the
	// suggested id of the next migration.
	RenderCounts(counts model.DashboardCounts, apply model.ApplyButton, nextMigrationID string)
	RenderVersions(rows []model.VersionRow)
	RenderRollbackTargets(options []model.Option)
	RenderBackups(rows []model.BackupRow)
	RenderBackupOptions(options []model.Option)

	ShowLoading(message string)
	HideLoading()
	ShowSuccess(notice model.Notice)
	ShowError(message string)

	ResetUploadForm()
	ResetRollbackForm()
	SelectRollbackTarget(versionID string)
	SelectBackup(filename string)
	ActivateTab(tab model.Tab)
}

// Confirm asks the user a yes/no question and reports whether they accepted.
type Confirm func(message string) bool

// ActivityRecorder stores the outcome of user actions. Recording is best effort
// and must not fail the action itself.
type ActivityRecorder interface {
	Record(ctx context.Context, action model.Action, status model.ActivityStatus, detail string)
}

// TokenSource supplies a remembered access token when the upload form has none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Scheduler runs jobs later. Both methods return a function that cancels the
// job; cancelling an already finished job is a no-op.
type Scheduler interface {
	Every(interval time.Duration, job func()) (cancel func())
	After(delay time.Duration, job func()) (cancel func())
}
