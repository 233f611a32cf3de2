package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/testutil"
)

type harness struct {
	api       *testutil.FakeAPI
	view      *testutil.RecordingView
	scheduler *testutil.ManualScheduler
	recorder  *testutil.RecordingRecorder
	client    *dashboard.Client
}

func newHarness(t *testing.T, opts ...dashboard.ClientOption) *harness {
	t.Helper()

	h := &harness{
		api:       testutil.NewFakeAPI(t),
		view:      testutil.NewRecordingView(),
		scheduler: testutil.NewManualScheduler(),
		recorder:  &testutil.RecordingRecorder{},
	}

	base := []dashboard.ClientOption{
		dashboard.WithScheduler(h.scheduler),
		dashboard.WithActivityRecorder(h.recorder),
		dashboard.WithLogger(testutil.DiscardLogger()),
		dashboard.WithLocation(time.UTC),
	}
	h.client = dashboard.New(h.api.Client(), h.view, append(base, opts...)...)
	t.Cleanup(h.client.Close)

	return h
}

func validUploadForm() model.UploadForm {
	return model.UploadForm{
		MigrationID: "004",
		Description: "add audit table",
		Author:      "dev",
		RiskLevel:   "medium",
		SQLContent:  "CREATE TABLE audit (id INT);",
		GithubToken: "ghp_test",
	}
}

func validRollbackForm(env string) model.RollbackForm {
	return model.RollbackForm{
		TargetVersion: "001",
		BackupFile:    "backup_20240115.sql",
		Environment:   env,
		Acknowledged:  true,
	}
}

func TestClient_Init(t *testing.T) {
	t.Run("renders cards, versions and backups from one batch", func(t *testing.T) {
		h := newHarness(t)

		h.client.Init(context.Background())

		state := h.view.State()
		want := model.DashboardCounts{AppliedCount: 2, PendingCount: 1, TotalCount: 3, PendingMigrations: 1, BackupCount: 1}
		if state.Counts != want {
			t.Errorf("Expected counts %+v, got %+v", want, state.Counts)
		}
		if state.Apply.Label != "Apply 1 Pending" || !state.Apply.Enabled {
			t.Errorf("Expected enabled 'Apply 1 Pending', got %+v", state.Apply)
		}
		if state.NextMigrationID != "004" {
			t.Errorf("Expected next migration id 004, got %s", state.NextMigrationID)
		}
		if len(state.Versions) != 3 {
			t.Fatalf("Expected 3 version rows, got %d", len(state.Versions))
		}
		if state.Versions[2].AppliedAt != model.NotAppliedText {
			t.Errorf("Expected pending version to show %q, got %q", model.NotAppliedText, state.Versions[2].AppliedAt)
		}
		if len(state.RollbackTargets) != 2 {
			t.Errorf("Expected 2 rollback targets, got %d", len(state.RollbackTargets))
		}
		if len(state.BackupOptions) != 1 || state.BackupOptions[0].Label != "backup_20240115.sql (1.5 KB, 2024-01-15)" {
			t.Errorf("Unexpected backup options: %+v", state.BackupOptions)
		}
		if h.api.Calls(testutil.PathVersions) != 1 || h.api.Calls(testutil.PathBackups) != 1 {
			t.Errorf("Expected a single fetch per endpoint, got versions=%d backups=%d",
				h.api.Calls(testutil.PathVersions), h.api.Calls(testutil.PathBackups))
		}
	})

	t.Run("failed batch leaves cards untouched but loads sections individually", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathStatus, http.StatusInternalServerError, `{"detail":"status down"}`)

		h.client.Init(context.Background())

		state := h.view.State()
		if state.CountRenders != 0 {
			t.Errorf("Expected no card render, got %d", state.CountRenders)
		}
		if len(state.Versions) != 3 {
			t.Errorf("Expected versions to load on their own, got %d rows", len(state.Versions))
		}
		if len(state.Backups) != 1 {
			t.Errorf("Expected backups to load on their own, got %d rows", len(state.Backups))
		}
		if len(state.Errors) != 0 {
			t.Errorf("Expected summary failure to stay silent, got %v", state.Errors)
		}
	})

	t.Run("versions failure is shown to the user", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathVersions, http.StatusBadGateway, `{"detail":"git unavailable"}`)

		h.client.Init(context.Background())

		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Failed to load migration versions: git unavailable" {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
	})

	t.Run("periodic refresh only re-fetches the summary", func(t *testing.T) {
		h := newHarness(t)
		h.client.Init(context.Background())
		h.api.ResetCalls()
		h.api.SetStatus(testutil.StatusOf(3, 0))

		h.scheduler.Advance(29 * time.Second)
		if h.api.Calls(testutil.PathStatus) != 0 {
			t.Fatalf("Expected no refresh before the interval, got %d", h.api.Calls(testutil.PathStatus))
		}

		h.scheduler.Advance(time.Second)
		state := h.view.State()
		if h.api.Calls(testutil.PathStatus) != 1 {
			t.Errorf("Expected one status fetch, got %d", h.api.Calls(testutil.PathStatus))
		}
		if state.Apply.Enabled || state.Apply.Label != "All Up to Date" {
			t.Errorf("Expected disabled 'All Up to Date', got %+v", state.Apply)
		}
		if state.CountRenders != 2 {
			t.Errorf("Expected 2 card renders, got %d", state.CountRenders)
		}
	})

	t.Run("close stops the periodic refresh", func(t *testing.T) {
		h := newHarness(t)
		h.client.Init(context.Background())
		h.client.Close()

		if h.scheduler.Pending() != 0 {
			t.Errorf("Expected no scheduled jobs after close, got %d", h.scheduler.Pending())
		}
	})
}

func TestClient_UploadMigration(t *testing.T) {
	t.Run("rejects missing fields without calling the API", func(t *testing.T) {
		h := newHarness(t)
		form := validUploadForm()
		form.SQLContent = ""

		err := h.client.UploadMigration(context.Background(), form)

		if !errors.Is(err, apperrors.ErrMissingUploadFields) {
			t.Errorf("Expected ErrMissingUploadFields, got %v", err)
		}
		if h.api.Calls(testutil.PathUpload) != 0 {
			t.Errorf("Expected no upload call, got %d", h.api.Calls(testutil.PathUpload))
		}
		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Please fill in all required fields." {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
		calls := h.recorder.Calls()
		if len(calls) != 1 || calls[0].Status != model.ActivityRejected {
			t.Errorf("Expected one rejected activity, got %+v", calls)
		}
	})

	t.Run("uploads with default commit message and delayed refresh", func(t *testing.T) {
		h := newHarness(t)

		if err := h.client.UploadMigration(context.Background(), validUploadForm()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		uploads := h.api.Uploads()
		if len(uploads) != 1 {
			t.Fatalf("Expected 1 upload, got %d", len(uploads))
		}
		if uploads[0].CommitMessage != "Add migration 004: add audit table" {
			t.Errorf("Expected default commit message, got %q", uploads[0].CommitMessage)
		}
		if uploads[0].GithubToken != "ghp_test" {
			t.Errorf("Expected token to be forwarded, got %q", uploads[0].GithubToken)
		}

		state := h.view.State()
		if len(state.Successes) != 1 || state.Successes[0].Title != "Migration uploaded successfully!" {
			t.Fatalf("Unexpected notices: %+v", state.Successes)
		}
		pr := state.Successes[0].Lines[2]
		if pr.Value != "#42" || pr.Href != "https://github.com/example/repo/pull/42" {
			t.Errorf("Unexpected pull request line: %+v", pr)
		}
		if state.UploadResets != 1 {
			t.Errorf("Expected upload form reset, got %d", state.UploadResets)
		}
		if state.LoadingVisible {
			t.Error("Expected loading indicator to be hidden")
		}
		if state.LoadingMessages[0] != "Uploading migration to GitHub..." {
			t.Errorf("Unexpected loading message %q", state.LoadingMessages[0])
		}

		if h.api.Calls(testutil.PathVersions) != 0 {
			t.Fatalf("Expected no refresh before the delay, got %d", h.api.Calls(testutil.PathVersions))
		}
		h.scheduler.Advance(2 * time.Second)
		if h.api.Calls(testutil.PathVersions) != 2 {
			t.Errorf("Expected summary and versions refresh after delay, got %d versions calls", h.api.Calls(testutil.PathVersions))
		}
		if h.api.Calls(testutil.PathBackups) != 1 {
			t.Errorf("Expected only the summary to fetch backups, got %d", h.api.Calls(testutil.PathBackups))
		}
	})

	t.Run("fired delayed refreshes are no longer tracked", func(t *testing.T) {
		h := newHarness(t)

		for i := 0; i < 3; i++ {
			if err := h.client.UploadMigration(context.Background(), validUploadForm()); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
		}
		if got := h.client.PendingDelayed(); got != 3 {
			t.Fatalf("Expected 3 pending delayed refreshes, got %d", got)
		}

		h.scheduler.Advance(2 * time.Second)
		if got := h.client.PendingDelayed(); got != 0 {
			t.Errorf("Expected no pending delayed refreshes after they ran, got %d", got)
		}
	})

	t.Run("keeps an explicit commit message", func(t *testing.T) {
		h := newHarness(t)
		form := validUploadForm()
		form.CommitMessage = "custom"

		if err := h.client.UploadMigration(context.Background(), form); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := h.api.Uploads()[0].CommitMessage; got != "custom" {
			t.Errorf("Expected custom commit message, got %q", got)
		}
	})

	t.Run("falls back to the remembered token", func(t *testing.T) {
		h := newHarness(t, dashboard.WithTokenSource(testutil.StaticTokenSource{Value: "ghp_saved"}))
		form := validUploadForm()
		form.GithubToken = ""

		if err := h.client.UploadMigration(context.Background(), form); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got := h.api.Uploads()[0].GithubToken; got != "ghp_saved" {
			t.Errorf("Expected remembered token, got %q", got)
		}
	})

	t.Run("missing remembered token still fails validation", func(t *testing.T) {
		h := newHarness(t, dashboard.WithTokenSource(testutil.StaticTokenSource{Err: apperrors.ErrSettingNotFound}))
		form := validUploadForm()
		form.GithubToken = ""

		err := h.client.UploadMigration(context.Background(), form)
		if !errors.Is(err, apperrors.ErrMissingUploadFields) {
			t.Errorf("Expected ErrMissingUploadFields, got %v", err)
		}
	})

	t.Run("reports the API detail on failure", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathUpload, http.StatusBadRequest, `{"detail":"Migration 004 already exists"}`)

		err := h.client.UploadMigration(context.Background(), validUploadForm())
		if err == nil {
			t.Fatal("Expected an error")
		}

		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Failed to upload migration: Migration 004 already exists" {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
		if state.UploadResets != 0 {
			t.Error("Expected form to be kept on failure")
		}
		if h.scheduler.Pending() != 0 {
			t.Errorf("Expected no delayed refresh, got %d jobs", h.scheduler.Pending())
		}
	})
}

func TestClient_ApplyPendingMigrations(t *testing.T) {
	t.Run("declined confirmation sends nothing", func(t *testing.T) {
		h := newHarness(t)
		confirm := testutil.NewConfirmer(false)

		err := h.client.ApplyPendingMigrations(context.Background(), confirm.Confirm)

		if !errors.Is(err, apperrors.ErrConfirmationDeclined) {
			t.Errorf("Expected ErrConfirmationDeclined, got %v", err)
		}
		if h.api.Calls(testutil.PathApply) != 0 {
			t.Errorf("Expected no apply call, got %d", h.api.Calls(testutil.PathApply))
		}
		if len(confirm.Messages) != 1 || confirm.Messages[0] != dashboard.ApplyConfirmMessage {
			t.Errorf("Unexpected prompts: %v", confirm.Messages)
		}
	})

	t.Run("applies and refreshes everything", func(t *testing.T) {
		h := newHarness(t)

		err := h.client.ApplyPendingMigrations(context.Background(), testutil.NewConfirmer(true).Confirm)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		state := h.view.State()
		if len(state.Successes) != 1 {
			t.Fatalf("Expected one notice, got %d", len(state.Successes))
		}
		notice := state.Successes[0]
		if notice.Message != "Applied 1 migration" || notice.Lines[0].Value != "backup_pre_apply.sql" {
			t.Errorf("Unexpected notice: %+v", notice)
		}
		if h.api.Calls(testutil.PathVersions) != 2 || h.api.Calls(testutil.PathBackups) != 2 {
			t.Errorf("Expected summary, versions and backups refresh, got versions=%d backups=%d",
				h.api.Calls(testutil.PathVersions), h.api.Calls(testutil.PathBackups))
		}
		calls := h.recorder.Calls()
		if len(calls) != 1 || calls[0].Action != model.ActionApply || calls[0].Status != model.ActivitySucceeded {
			t.Errorf("Unexpected activity: %+v", calls)
		}
	})

	t.Run("falls back to the HTTP status when the error has no detail", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathApply, http.StatusInternalServerError, `not json`)

		_ = h.client.ApplyPendingMigrations(context.Background(), testutil.NewConfirmer(true).Confirm)

		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Failed to apply migrations: HTTP 500" {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
		if h.api.Calls(testutil.PathVersions) != 0 {
			t.Error("Expected no refresh after a failed apply")
		}
	})
}

func TestClient_ExecuteRollback(t *testing.T) {
	t.Run("requires target and backup", func(t *testing.T) {
		h := newHarness(t)
		form := validRollbackForm("staging")
		form.BackupFile = ""

		err := h.client.ExecuteRollback(context.Background(), form, nil)
		if !errors.Is(err, apperrors.ErrMissingRollbackSelection) {
			t.Errorf("Expected ErrMissingRollbackSelection, got %v", err)
		}
		if h.api.Calls(testutil.PathRollback) != 0 {
			t.Error("Expected no rollback call")
		}
	})

	t.Run("requires the destructive acknowledgment", func(t *testing.T) {
		h := newHarness(t)
		form := validRollbackForm("staging")
		form.Acknowledged = false

		err := h.client.ExecuteRollback(context.Background(), form, nil)
		if !errors.Is(err, apperrors.ErrRollbackNotAcknowledged) {
			t.Errorf("Expected ErrRollbackNotAcknowledged, got %v", err)
		}
		state := h.view.State()
		if len(state.Errors) != 1 || !strings.Contains(state.Errors[0], "destructive") {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
	})

	t.Run("non-production rollback does not prompt", func(t *testing.T) {
		h := newHarness(t)
		confirm := testutil.NewConfirmer()

		if err := h.client.ExecuteRollback(context.Background(), validRollbackForm("staging"), confirm.Confirm); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(confirm.Messages) != 0 {
			t.Errorf("Expected no prompt, got %v", confirm.Messages)
		}

		rollbacks := h.api.Rollbacks()
		if len(rollbacks) != 1 || rollbacks[0].TargetVersion != "001" || rollbacks[0].Environment != "staging" {
			t.Errorf("Unexpected rollback requests: %+v", rollbacks)
		}
		state := h.view.State()
		if state.RollbackResets != 1 {
			t.Errorf("Expected rollback form reset, got %d", state.RollbackResets)
		}
		if state.LoadingMessages[0] != "Rolling back to version 001..." {
			t.Errorf("Unexpected loading message %q", state.LoadingMessages[0])
		}
		if h.api.Calls(testutil.PathVersions) != 2 {
			t.Errorf("Expected summary and versions refresh, got %d", h.api.Calls(testutil.PathVersions))
		}
	})

	t.Run("declined production prompt sends nothing", func(t *testing.T) {
		h := newHarness(t)
		confirm := testutil.NewConfirmer(false)

		err := h.client.ExecuteRollback(context.Background(), validRollbackForm("prod"), confirm.Confirm)
		if !errors.Is(err, apperrors.ErrConfirmationDeclined) {
			t.Errorf("Expected ErrConfirmationDeclined, got %v", err)
		}
		if len(confirm.Messages) != 1 || confirm.Messages[0] != dashboard.ProductionRollbackConfirmMessage {
			t.Errorf("Unexpected prompts: %v", confirm.Messages)
		}
		if h.api.Calls(testutil.PathRollback) != 0 {
			t.Error("Expected no rollback call")
		}
	})

	t.Run("confirmed production rollback runs", func(t *testing.T) {
		h := newHarness(t)

		err := h.client.ExecuteRollback(context.Background(), validRollbackForm("prod"), testutil.NewConfirmer(true).Confirm)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		notice := h.view.State().Successes[0]
		if notice.Title != "Rollback completed successfully!" || notice.Lines[1].Value != "prod" {
			t.Errorf("Unexpected notice: %+v", notice)
		}
	})

	t.Run("failure keeps the form", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathRollback, http.StatusConflict, `{"detail":"backup is older than target"}`)

		_ = h.client.ExecuteRollback(context.Background(), validRollbackForm("dev"), nil)

		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Rollback failed: backup is older than target" {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
		if state.RollbackResets != 0 {
			t.Error("Expected rollback form to be kept")
		}
	})
}

func TestClient_CreateBackup(t *testing.T) {
	t.Run("shows the new backup and refreshes the list", func(t *testing.T) {
		h := newHarness(t)

		if err := h.client.CreateBackup(context.Background()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		notice := h.view.State().Successes[0]
		if notice.Title != "Backup created successfully!" {
			t.Errorf("Unexpected title %q", notice.Title)
		}
		if notice.Lines[1].Value != "2 KB" {
			t.Errorf("Expected size 2 KB, got %q", notice.Lines[1].Value)
		}
		if notice.Lines[2].Value != "2024-01-15 10:30:00" {
			t.Errorf("Unexpected created line %q", notice.Lines[2].Value)
		}
		if h.api.Calls(testutil.PathBackups) != 1 {
			t.Errorf("Expected backup list refresh, got %d", h.api.Calls(testutil.PathBackups))
		}
	})

	t.Run("reports failures", func(t *testing.T) {
		h := newHarness(t)
		h.api.Fail(testutil.PathBackupCreate, http.StatusInternalServerError, `{"detail":"disk full"}`)

		if err := h.client.CreateBackup(context.Background()); err == nil {
			t.Fatal("Expected an error")
		}
		state := h.view.State()
		if len(state.Errors) != 1 || state.Errors[0] != "Failed to create backup: disk full" {
			t.Errorf("Unexpected errors: %v", state.Errors)
		}
		calls := h.recorder.Calls()
		if len(calls) != 1 || calls[0].Status != model.ActivityFailed {
			t.Errorf("Expected a failed activity, got %+v", calls)
		}
	})
}

func TestClient_Navigation(t *testing.T) {
	t.Run("prepare rollback preselects the version", func(t *testing.T) {
		h := newHarness(t)

		h.client.PrepareRollback("002")

		state := h.view.State()
		if state.ActiveTab != model.TabRollback || state.SelectedTarget != "002" {
			t.Errorf("Unexpected state: tab=%s target=%s", state.ActiveTab, state.SelectedTarget)
		}
		if h.api.Calls(testutil.PathRollback) != 0 {
			t.Error("Expected nothing to be executed")
		}
	})

	t.Run("use backup preselects the file", func(t *testing.T) {
		h := newHarness(t)

		h.client.UseBackupForRollback("backup_20240115.sql")

		state := h.view.State()
		if state.ActiveTab != model.TabRollback || state.SelectedBackup != "backup_20240115.sql" {
			t.Errorf("Unexpected state: tab=%s backup=%s", state.ActiveTab, state.SelectedBackup)
		}
	})

	t.Run("refresh versions leaves backups alone", func(t *testing.T) {
		h := newHarness(t)

		if err := h.client.RefreshVersions(context.Background()); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if h.api.Calls(testutil.PathVersions) != 2 {
			t.Errorf("Expected 2 versions calls, got %d", h.api.Calls(testutil.PathVersions))
		}
		if len(h.view.State().Backups) != 0 {
			t.Error("Expected backup table not to be rendered")
		}
	})
}
