package testutil

import (
	"sync"

	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// ViewState is a snapshot of everything rendered into a RecordingView.
type ViewState struct {
	Counts          model.DashboardCounts
	Apply           model.ApplyButton
	NextMigrationID string
	CountRenders    int

	Versions        []model.VersionRow
	RollbackTargets []model.Option
	Backups         []model.BackupRow
	BackupOptions   []model.Option

	LoadingMessages []string
	LoadingVisible  bool
	Successes       []model.Notice
	Errors          []string

	UploadResets   int
	RollbackResets int
	SelectedTarget string
	SelectedBackup string
	ActiveTab      model.Tab
}

// RecordingView records every render call for assertions.
// It is safe for concurrent use.
type RecordingView struct {
	mu    sync.Mutex
	state ViewState
}

func NewRecordingView() *RecordingView {
	return &RecordingView{}
}

// State returns a copy of the recorded state.
func (v *RecordingView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := v.state
	s.LoadingMessages = append([]string(nil), v.state.LoadingMessages...)
	s.Successes = append([]model.Notice(nil), v.state.Successes...)
	s.Errors = append([]string(nil), v.state.Errors...)
	return s
}

func (v *RecordingView) RenderCounts(counts model.DashboardCounts, apply model.ApplyButton, nextMigrationID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Counts = counts
	v.state.Apply = apply
	v.state.NextMigrationID = nextMigrationID
	v.state.CountRenders++
}

func (v *RecordingView) RenderVersions(rows []model.VersionRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Versions = rows
}

func (v *RecordingView) RenderRollbackTargets(options []model.Option) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.RollbackTargets = options
}

func (v *RecordingView) RenderBackups(rows []model.BackupRow) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Backups = rows
}

func (v *RecordingView) RenderBackupOptions(options []model.Option) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.BackupOptions = options
}

func (v *RecordingView) ShowLoading(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.LoadingMessages = append(v.state.LoadingMessages, message)
	v.state.LoadingVisible = true
}

func (v *RecordingView) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.LoadingVisible = false
}

func (v *RecordingView) ShowSuccess(notice model.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Successes = append(v.state.Successes, notice)
}

func (v *RecordingView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Errors = append(v.state.Errors, message)
}

func (v *RecordingView) ResetUploadForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.UploadResets++
}

func (v *RecordingView) ResetRollbackForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.RollbackResets++
}

func (v *RecordingView) SelectRollbackTarget(versionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedTarget = versionID
}

func (v *RecordingView) SelectBackup(filename string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.SelectedBackup = filename
}

func (v *RecordingView) ActivateTab(tab model.Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.ActiveTab = tab
}
