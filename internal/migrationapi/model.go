package migrationapi

// VersionStatus is the apply state of a migration as reported by the backend.
type VersionStatus string

const (
	StatusApplied VersionStatus = "applied"
	StatusPending VersionStatus = "pending"
	StatusFailed  VersionStatus = "failed"
)

// VersionRecord is a single migration as listed by GET /api/migrations/versions.
// Records are replaced wholesale on every fetch and never mutated in place.
type VersionRecord struct {
	ID            string        `json:"id"`
	Description   string        `json:"description"`
	Author        string        `json:"author"`
	Filename      string        `json:"filename"`
	Status        VersionStatus `json:"status"`
	RiskLevel     string        `json:"risk_level"`
	AppliedAt     *Timestamp    `json:"applied_at"`
	CanRollbackTo bool          `json:"can_rollback_to"`
	Checksum      string        `json:"checksum,omitempty"`
}

// VersionsResponse is the body of GET /api/migrations/versions.
type VersionsResponse struct {
	Versions     []VersionRecord `json:"versions"`
	AppliedCount int             `json:"applied_count"`
	PendingCount int             `json:"pending_count"`
	TotalCount   int             `json:"total_count"`
}

// PendingDetail describes one migration that has not been applied yet.
type PendingDetail struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Filename string `json:"filename"`
	Risk     string `json:"risk"`
}

// StatusResponse is the body of GET /api/migrations/status.
type StatusResponse struct {
	PendingMigrations int             `json:"pending_migrations"`
	TotalMigrations   int             `json:"total_migrations"`
	AppliedMigrations int             `json:"applied_migrations"`
	PendingDetails    []PendingDetail `json:"pending_details,omitempty"`
}

// BackupRecord is a database snapshot usable as a rollback restore point.
type BackupRecord struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt Timestamp `json:"created_at"`
	Type      string    `json:"type"`
}

// BackupsResponse is the body of GET /api/backups.
type BackupsResponse struct {
	Backups []BackupRecord `json:"backups"`
}

// UploadRequest is the body of POST /api/migrations/upload.
type UploadRequest struct {
	MigrationID   string `json:"migration_id"`
	Description   string `json:"description"`
	Author        string `json:"author"`
	RiskLevel     string `json:"risk_level"`
	SQLContent    string `json:"sql_content"`
	CommitMessage string `json:"commit_message"`
	GithubToken   string `json:"github_token"`
}

// UploadResponse describes the pull request opened for an uploaded migration.
type UploadResponse struct {
	Filename string `json:"filename"`
	Branch   string `json:"branch"`
	PRURL    string `json:"pr_url"`
	PRNumber int    `json:"pr_number"`
}

// ApplyResponse is the body returned by POST /api/migrations/apply.
type ApplyResponse struct {
	Message    string `json:"message"`
	BackupFile string `json:"backup_file"`
}

// RollbackRequest is the body of POST /api/migrations/rollback.
type RollbackRequest struct {
	TargetVersion string `json:"target_version"`
	BackupFile    string `json:"backup_file"`
	Environment   string `json:"environment"`
}

// RollbackResponse is the body returned by POST /api/migrations/rollback.
type RollbackResponse struct {
	Message    string `json:"message"`
	BackupUsed string `json:"backup_used"`
}

// BackupCreateResponse is the body returned by POST /api/backups/create.
type BackupCreateResponse struct {
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt Timestamp `json:"created_at"`
}
