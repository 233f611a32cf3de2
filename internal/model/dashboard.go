package model

// Text shown when a list rendered by the dashboard is empty.
const (
	EmptyVersionsText = "No migrations found."
	EmptyBackupsText  = "No backups found"
	NotAppliedText    = "Not applied"
)

// Tone is the visual severity attached to a status.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// Tab identifies a section of the dashboard.
type Tab string

const (
	TabVersions Tab = "versions"
	TabUpload   Tab = "upload"
	TabRollback Tab = "rollback"
	TabBackups  Tab = "backups"
)

// DashboardCounts is the summary shown on the dashboard cards.
type DashboardCounts struct {
	AppliedCount      int `json:"appliedCount"`
	PendingCount      int `json:"pendingCount"`
	TotalCount        int `json:"totalCount"`
	PendingMigrations int `json:"pendingMigrations"`
	BackupCount       int `json:"backupCount"`
}

// ApplyButton is the state of the "apply pending migrations" action.
type ApplyButton struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// Option is an entry of a selection list.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// VersionRow is a migration prepared for display in the versions timeline.
type VersionRow struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Filename      string `json:"filename"`
	Status        string `json:"status"`
	StatusTone    Tone   `json:"statusTone"`
	StatusIcon    string `json:"statusIcon"`
	RiskLevel     string `json:"riskLevel"`
	RiskBadge     string `json:"riskBadge"`
	AppliedAt     string `json:"appliedAt"`
	CanRollbackTo bool   `json:"canRollbackTo"`
}

// BackupRow is a backup prepared for display in the backups table.
type BackupRow struct {
	Filename  string `json:"filename"`
	Size      string `json:"size"`
	CreatedAt string `json:"createdAt"`
	Type      string `json:"type"`
}

// NoticeLine is a labelled value of a success notice.
type NoticeLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// Href turns the value into a link when set.
	Href string `json:"href,omitempty"`
}

// Notice is the content of the success surface shown after an action completes.
type Notice struct {
	Title   string       `json:"title"`
	Message string       `json:"message,omitempty"`
	Lines   []NoticeLine `json:"lines,omitempty"`
	Footer  string       `json:"footer,omitempty"`
}

// UploadForm holds the fields of the migration upload form.
type UploadForm struct {
	MigrationID   string `json:"migrationId"`
	Description   string `json:"description"`
	Author        string `json:"author"`
	RiskLevel     string `json:"riskLevel"`
	SQLContent    string `json:"sqlContent"`
	CommitMessage string `json:"commitMessage"`
	GithubToken   string `json:"-"`
}

// RollbackForm holds the fields of the rollback form.
type RollbackForm struct {
	TargetVersion string `json:"targetVersion"`
	BackupFile    string `json:"backupFile"`
	Environment   string `json:"environment"`
	// Acknowledged is the "I understand this operation is destructive" checkbox.
	Acknowledged bool `json:"acknowledged"`
}
