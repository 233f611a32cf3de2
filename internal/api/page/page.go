// Package page holds the server-side state of the web dashboard and renders it as HTML.
package page

import (
	"embed"
	"html/template"
	"io"
	"sync"

	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

//go:embed templates/*.html
var templates embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templates, "templates/dashboard.html"))

// Environments offered on the rollback form.
var Environments = []string{"dev", "staging", "prod"}

// State is everything the web dashboard shows. It is also served as JSON.
type State struct {
	Counts          model.DashboardCounts `json:"counts"`
	Apply           model.ApplyButton     `json:"apply"`
	NextMigrationID string                `json:"nextMigrationId"`

	Versions        []model.VersionRow `json:"versions"`
	RollbackTargets []model.Option     `json:"rollbackTargets"`
	Backups         []model.BackupRow  `json:"backups"`
	BackupOptions   []model.Option     `json:"backupOptions"`

	Loading string        `json:"loading,omitempty"`
	Notice  *model.Notice `json:"notice,omitempty"`
	Error   string        `json:"error,omitempty"`

	Upload         model.UploadForm `json:"upload"`
	SelectedTarget string           `json:"selectedTarget,omitempty"`
	SelectedBackup string           `json:"selectedBackup,omitempty"`
	ActiveTab      model.Tab        `json:"activeTab"`
}

// View is a dashboard.View that keeps the rendered state in memory.
type View struct {
	mu    sync.RWMutex
	state State
	// draft is set while the upload form holds user input; refreshes leave
	// the migration id alone until the form is reset.
	draft bool
}

var _ dashboard.View = (*View)(nil)

func NewView() *View {
	return &View{state: State{
		ActiveTab:       model.TabVersions,
		Apply:           dashboard.ApplyButtonFor(0),
		Versions:        []model.VersionRow{},
		RollbackTargets: []model.Option{},
		Backups:         []model.BackupRow{},
		BackupOptions:   []model.Option{},
	}}
}

// State returns a copy of the current state.
func (v *View) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := v.state
	if v.state.Notice != nil {
		notice := *v.state.Notice
		s.Notice = &notice
	}
	return s
}

// ClearMessages drops the last notice and error before a new action runs.
func (v *View) ClearMessages() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Notice = nil
	v.state.Error = ""
}

// KeepUploadDraft remembers what was typed into the upload form so a rejected
// submission can be corrected. The token is never kept.
func (v *View) KeepUploadDraft(form model.UploadForm) {
	v.mu.Lock()
	defer v.mu.Unlock()
	form.GithubToken = ""
	v.state.Upload = form
	v.draft = true
}

func (v *View) RenderCounts(counts model.DashboardCounts, apply model.ApplyButton, nextMigrationID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Counts = counts
	v.state.Apply = apply
	v.state.NextMigrationID = nextMigrationID
	if !v.draft || v.state.Upload.MigrationID == "" {
		v.state.Upload.MigrationID = nextMigrationID
	}
}

func (v *View) RenderVersions(rows []model.VersionRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Versions = rows
}

func (v *View) RenderRollbackTargets(options []model.Option) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.RollbackTargets = options
}

func (v *View) RenderBackups(rows []model.BackupRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Backups = rows
}

func (v *View) RenderBackupOptions(options []model.Option) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.BackupOptions = options
}

func (v *View) ShowLoading(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = message
}

func (v *View) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = ""
}

func (v *View) ShowSuccess(notice model.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Notice = &notice
	v.state.Error = ""
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Error = message
	v.state.Notice = nil
}

func (v *View) ResetUploadForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Upload = model.UploadForm{MigrationID: v.state.NextMigrationID}
	v.draft = false
}

func (v *View) ResetRollbackForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedTarget = ""
	v.state.SelectedBackup = ""
}

func (v *View) SelectRollbackTarget(versionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedTarget = versionID
}

func (v *View) SelectBackup(filename string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedBackup = filename
}

func (v *View) ActivateTab(tab model.Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ActiveTab = tab
}

type pageData struct {
	State
	Environments      []string
	EmptyVersionsText string
	EmptyBackupsText  string
	ApplyConfirm      string
	ProdConfirm       string
}

// Render writes the dashboard HTML for the current state. A non-empty tab
// overrides the active tab for this render only.
func (v *View) Render(w io.Writer, tab model.Tab) error {
	state := v.State()
	if tab != "" {
		state.ActiveTab = tab
	}
	return dashboardTemplate.Execute(w, pageData{
		State:             state,
		Environments:      Environments,
		EmptyVersionsText: model.EmptyVersionsText,
		EmptyBackupsText:  model.EmptyBackupsText,
		ApplyConfirm:      dashboard.ApplyConfirmMessage,
		ProdConfirm:       dashboard.ProductionRollbackConfirmMessage,
	})
}
