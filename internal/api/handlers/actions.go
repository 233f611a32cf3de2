package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Migration-Dashboard/internal/api/page"
	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// DashboardActions is the subset of *dashboard.Client driven by form posts.
type DashboardActions interface {
	UploadMigration(ctx context.Context, form model.UploadForm) error
	ApplyPendingMigrations(ctx context.Context, confirm dashboard.Confirm) error
	ExecuteRollback(ctx context.Context, form model.RollbackForm, confirm dashboard.Confirm) error
	CreateBackup(ctx context.Context) error
	RefreshVersions(ctx context.Context) error
	PrepareRollback(versionID string)
	UseBackupForRollback(filename string)
}

// ActionHandler turns dashboard form posts into dashboard actions. Every
// action redirects back to the page, where its outcome is shown.
type ActionHandler struct {
	actions DashboardActions
	view    *page.View
	log     logrus.FieldLogger
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(actions DashboardActions, view *page.View, log logrus.FieldLogger) *ActionHandler {
	return &ActionHandler{
		actions: actions,
		view:    view,
		log:     log,
	}
}

// formConfirm answers a confirmation prompt from a checkbox posted with the form.
func formConfirm(r *http.Request, field string) dashboard.Confirm {
	return func(string) bool {
		return r.PostFormValue(field) == "yes"
	}
}

func (h *ActionHandler) begin(w http.ResponseWriter, r *http.Request, tab model.Tab) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, apperrors.ErrInvalidForm.Error(), http.StatusBadRequest)
		return false
	}
	h.view.ClearMessages()
	h.view.ActivateTab(tab)
	return true
}

func (h *ActionHandler) done(w http.ResponseWriter, r *http.Request, action string, err error) {
	if err != nil {
		h.log.WithField("action", action).WithError(err).Debug("Dashboard action did not complete")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Upload handles POST /actions/upload.
func (h *ActionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r, model.TabUpload) {
		return
	}

	form := model.UploadForm{
		MigrationID:   r.PostFormValue("migration_id"),
		Description:   r.PostFormValue("description"),
		Author:        r.PostFormValue("author"),
		RiskLevel:     r.PostFormValue("risk_level"),
		SQLContent:    r.PostFormValue("sql_content"),
		CommitMessage: r.PostFormValue("commit_message"),
		GithubToken:   r.PostFormValue("github_token"),
	}
	h.view.KeepUploadDraft(form)

	h.done(w, r, "upload", h.actions.UploadMigration(r.Context(), form))
}

// Apply handles POST /actions/apply. The "confirm" field must be "yes".
func (h *ActionHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r, model.TabVersions) {
		return
	}
	err := h.actions.ApplyPendingMigrations(r.Context(), formConfirm(r, "confirm"))
	if errors.Is(err, apperrors.ErrConfirmationDeclined) {
		h.view.ShowError("Please confirm applying pending migrations.")
	}
	h.done(w, r, "apply", err)
}

// Rollback handles POST /actions/rollback. Production rollbacks additionally
// need "confirm_production" set to "yes".
func (h *ActionHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r, model.TabRollback) {
		return
	}

	form := model.RollbackForm{
		TargetVersion: r.PostFormValue("target_version"),
		BackupFile:    r.PostFormValue("backup_file"),
		Environment:   r.PostFormValue("environment"),
		Acknowledged:  r.PostFormValue("acknowledge") == "yes",
	}
	h.view.SelectRollbackTarget(form.TargetVersion)
	h.view.SelectBackup(form.BackupFile)

	err := h.actions.ExecuteRollback(r.Context(), form, formConfirm(r, "confirm_production"))
	if errors.Is(err, apperrors.ErrConfirmationDeclined) {
		h.view.ShowError("Production rollback was not confirmed.")
	}
	h.done(w, r, "rollback", err)
}

// Backup handles POST /actions/backup.
func (h *ActionHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r, model.TabBackups) {
		return
	}
	h.done(w, r, "backup", h.actions.CreateBackup(r.Context()))
}

// Refresh handles POST /actions/refresh: versions and the summary are
// re-fetched, the backup list is not.
func (h *ActionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.begin(w, r, model.TabVersions) {
		return
	}
	h.done(w, r, "refresh", h.actions.RefreshVersions(r.Context()))
}

// PrepareRollback handles POST /actions/prepare-rollback with a "version_id" field.
func (h *ActionHandler) PrepareRollback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, apperrors.ErrInvalidForm.Error(), http.StatusBadRequest)
		return
	}
	h.actions.PrepareRollback(r.PostFormValue("version_id"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UseBackup handles POST /actions/use-backup with a "filename" field.
func (h *ActionHandler) UseBackup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, apperrors.ErrInvalidForm.Error(), http.StatusBadRequest)
		return
	}
	h.actions.UseBackupForRollback(r.PostFormValue("filename"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
