// Package terminal renders the dashboard to a terminal and asks for
// confirmations interactively.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

// Section is a part of the dashboard a View prints.
type Section int

const (
	SectionCounts Section = iota
	SectionVersions
	SectionRollbackTargets
	SectionBackups
	SectionBackupOptions
)

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	dangerColor  = color.New(color.FgRed)
	titleColor   = color.New(color.Bold)
	loadingColor = color.New(color.FgCyan)
)

// View prints dashboard renders as tables. Only the sections it was created
// with are printed; all rendered data is kept so commands can offer choices.
type View struct {
	out      io.Writer
	sections map[Section]bool

	mu              sync.Mutex
	nextMigrationID string
	rollbackTargets []model.Option
	backupOptions   []model.Option
	selectedTarget  string
	selectedBackup  string
}

var _ dashboard.View = (*View)(nil)

// NewView creates a View printing the given sections to out.
func NewView(out io.Writer, sections ...Section) *View {
	v := &View{out: out, sections: make(map[Section]bool)}
	for _, s := range sections {
		v.sections[s] = true
	}
	return v
}

func toneColor(tone model.Tone) *color.Color {
	switch tone {
	case model.ToneSuccess:
		return successColor
	case model.ToneWarning:
		return warningColor
	default:
		return dangerColor
	}
}

func (v *View) RenderCounts(counts model.DashboardCounts, apply model.ApplyButton, nextMigrationID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextMigrationID = nextMigrationID
	if !v.sections[SectionCounts] {
		return
	}

	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"Applied", "Pending", "Total", "Backups", "Next ID"})
	table.Append([]string{
		strconv.Itoa(counts.AppliedCount),
		strconv.Itoa(counts.PendingCount),
		strconv.Itoa(counts.TotalCount),
		strconv.Itoa(counts.BackupCount),
		nextMigrationID,
	})
	table.Render()

	if apply.Enabled {
		warningColor.Fprintln(v.out, apply.Label)
	} else {
		successColor.Fprintln(v.out, apply.Label)
	}
}

func (v *View) RenderVersions(rows []model.VersionRow) {
	if !v.sections[SectionVersions] {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(rows) == 0 {
		fmt.Fprintln(v.out, model.EmptyVersionsText)
		return
	}

	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"Status", "Migration", "Author", "File", "Risk", "Applied At"})
	for _, r := range rows {
		table.Append([]string{
			toneColor(r.StatusTone).Sprint(r.Status),
			r.Title,
			r.Author,
			r.Filename,
			r.RiskBadge,
			r.AppliedAt,
		})
	}
	table.Render()
}

func (v *View) RenderRollbackTargets(options []model.Option) {
	v.mu.Lock()
	v.rollbackTargets = options
	v.mu.Unlock()

	if v.sections[SectionRollbackTargets] {
		v.printOptions("Rollback targets", options)
	}
}

func (v *View) RenderBackups(rows []model.BackupRow) {
	if !v.sections[SectionBackups] {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(rows) == 0 {
		fmt.Fprintln(v.out, model.EmptyBackupsText)
		return
	}

	table := tablewriter.NewWriter(v.out)
	table.SetHeader([]string{"File", "Size", "Created", "Type"})
	for _, r := range rows {
		table.Append([]string{r.Filename, r.Size, r.CreatedAt, r.Type})
	}
	table.Render()
}

func (v *View) RenderBackupOptions(options []model.Option) {
	v.mu.Lock()
	v.backupOptions = options
	v.mu.Unlock()

	if v.sections[SectionBackupOptions] {
		v.printOptions("Backups", options)
	}
}

func (v *View) printOptions(title string, options []model.Option) {
	v.mu.Lock()
	defer v.mu.Unlock()

	titleColor.Fprintln(v.out, title)
	for _, o := range options {
		fmt.Fprintf(v.out, "  %s\n", o.Label)
	}
}

func (v *View) ShowLoading(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	loadingColor.Fprintln(v.out, message)
}

func (v *View) HideLoading() {}

func (v *View) ShowSuccess(notice model.Notice) {
	v.mu.Lock()
	defer v.mu.Unlock()

	successColor.Fprintln(v.out, notice.Title)
	if notice.Message != "" {
		fmt.Fprintln(v.out, notice.Message)
	}
	for _, line := range notice.Lines {
		value := line.Value
		if line.Href != "" {
			value = fmt.Sprintf("%s (%s)", line.Value, line.Href)
		}
		fmt.Fprintf(v.out, "  %s: %s\n", line.Label, value)
	}
	if notice.Footer != "" {
		fmt.Fprintln(v.out, notice.Footer)
	}
}

func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	dangerColor.Fprintln(v.out, message)
}

func (v *View) ResetUploadForm() {}

func (v *View) ResetRollbackForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedTarget = ""
	v.selectedBackup = ""
}

func (v *View) SelectRollbackTarget(versionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedTarget = versionID
}

func (v *View) SelectBackup(filename string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedBackup = filename
}

func (v *View) ActivateTab(model.Tab) {}

// NextMigrationID returns the id suggested for the next upload by the last render.
func (v *View) NextMigrationID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nextMigrationID
}

// RollbackTargets returns the versions offered as rollback targets by the last render.
func (v *View) RollbackTargets() []model.Option {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Option(nil), v.rollbackTargets...)
}

// BackupOptions returns the backups offered by the last render.
func (v *View) BackupOptions() []model.Option {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]model.Option(nil), v.backupOptions...)
}

// Selection returns the pre-selected rollback target and backup.
func (v *View) Selection() (target, backup string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selectedTarget, v.selectedBackup
}
