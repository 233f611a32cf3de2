// Package dashboard implements the migration dashboard controller: it loads
// migration, version and backup state from the migration API, renders it
// through a View and turns user actions into API calls.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/migrationapi"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
)

const (
	// DefaultRefreshInterval is how often the summary cards are re-fetched.
	DefaultRefreshInterval = 30 * time.Second
	// DefaultUploadRefreshDelay gives the backend time to pick up an uploaded migration.
	DefaultUploadRefreshDelay = 2 * time.Second
)

// Confirmation prompts.
const (
	ApplyConfirmMessage = "Are you sure you want to apply all pending migrations? A backup will be created automatically."

	ProductionRollbackConfirmMessage = "WARNING: You are about to rollback the PRODUCTION database. " +
		"This will restore the database from a backup and any data written after " +
		"the backup timestamp will be PERMANENTLY LOST. Are you absolutely sure?"
)

// ProductionEnvironment is the environment name that requires a second confirmation on rollback.
const ProductionEnvironment = "prod"

// Client is the dashboard controller. It is safe for concurrent use; the
// periodic refresh and user actions are not serialised against each other, so
// a slow refresh may render older data after a newer action.
type Client struct {
	api       migrationapi.Client
	view      View
	scheduler Scheduler
	recorder  ActivityRecorder
	tokens    TokenSource
	log       logrus.FieldLogger
	location  *time.Location

	refreshInterval    time.Duration
	uploadRefreshDelay time.Duration

	bgCtx    context.Context
	bgCancel context.CancelFunc

	ownsScheduler bool

	mu            sync.Mutex
	cancelRefresh func()
	nextDelayedID int
	delayed       map[int]func()
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithScheduler sets the scheduler used for the periodic and delayed refreshes.
func WithScheduler(s Scheduler) ClientOption {
	return func(c *Client) { c.scheduler = s }
}

// WithActivityRecorder records the outcome of every user action.
func WithActivityRecorder(r ActivityRecorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// WithTokenSource supplies a remembered access token for uploads submitted without one.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithLocation sets the time zone used to display timestamps.
func WithLocation(loc *time.Location) ClientOption {
	return func(c *Client) { c.location = loc }
}

func WithRefreshInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.refreshInterval = d }
}

func WithUploadRefreshDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.uploadRefreshDelay = d }
}

// New creates a dashboard controller rendering into view. Without
// WithScheduler, a CronScheduler is created and stopped by Close.
func New(api migrationapi.Client, view View, opts ...ClientOption) *Client {
	c := &Client{
		api:                api,
		view:               view,
		log:                logrus.StandardLogger(),
		location:           time.Local,
		refreshInterval:    DefaultRefreshInterval,
		uploadRefreshDelay: DefaultUploadRefreshDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("component", "dashboard")
	if c.scheduler == nil {
		c.scheduler = NewCronScheduler(c.log)
		c.ownsScheduler = true
	}
	c.delayed = make(map[int]func())
	c.bgCtx, c.bgCancel = context.WithCancel(context.Background())
	return c
}

// Init loads all dashboard data and starts the periodic summary refresh.
//
// Versions, status and backups are fetched concurrently. When all three
// succeed, the cards, the versions timeline and the backup table are rendered
// from that single batch. When any of them fails, no card is updated for this
// cycle; the versions and backups sections are then loaded on their own.
func (c *Client) Init(ctx context.Context) {
	versions, status, backups, err := c.fetchAll(ctx)
	if err != nil {
		c.log.WithError(err).Error("Failed to load dashboard data")
		_ = c.LoadVersions(ctx)
		_ = c.LoadBackups(ctx)
	} else {
		c.renderCounts(versions, status, backups)
		c.renderVersions(versions.Versions)
		c.renderBackups(backups.Backups)
	}

	c.startRefresh()
}

// Close stops the periodic refresh and any pending delayed refresh.
func (c *Client) Close() {
	c.mu.Lock()
	if c.cancelRefresh != nil {
		c.cancelRefresh()
		c.cancelRefresh = nil
	}
	for id, cancel := range c.delayed {
		cancel()
		delete(c.delayed, id)
	}
	c.mu.Unlock()

	c.bgCancel()
	if s, ok := c.scheduler.(*CronScheduler); ok && c.ownsScheduler {
		<-s.Stop().Done()
	}
}

func (c *Client) startRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelRefresh != nil {
		return
	}
	c.cancelRefresh = c.scheduler.Every(c.refreshInterval, func() {
		_ = c.LoadDashboardData(c.bgCtx)
	})
}

func (c *Client) fetchAll(ctx context.Context) (migrationapi.VersionsResponse, migrationapi.StatusResponse, migrationapi.BackupsResponse, error) {
	var (
		versions migrationapi.VersionsResponse
		status   migrationapi.StatusResponse
		backups  migrationapi.BackupsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		versions, err = c.api.Versions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = c.api.Status(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		backups, err = c.api.Backups(gctx)
		return err
	})

	err := g.Wait()
	return versions, status, backups, err
}

// LoadDashboardData refreshes the summary cards, the apply action and the next
// migration id. It is all-or-nothing: a failure of any of the three fetches
// leaves the cards untouched. Failures are logged, never shown to the user.
func (c *Client) LoadDashboardData(ctx context.Context) error {
	versions, status, backups, err := c.fetchAll(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Failed to load dashboard data")
		return err
	}
	c.renderCounts(versions, status, backups)
	return nil
}

// LoadVersions refreshes the versions timeline and the rollback target list.
func (c *Client) LoadVersions(ctx context.Context) error {
	data, err := c.api.Versions(ctx)
	if err != nil {
		c.log.WithError(err).Error("Failed to load versions")
		c.view.ShowError("Failed to load migration versions: " + err.Error())
		return err
	}
	c.renderVersions(data.Versions)
	return nil
}

// LoadBackups refreshes the backup table and the backup selection list.
// Failures are logged only.
func (c *Client) LoadBackups(ctx context.Context) error {
	data, err := c.api.Backups(ctx)
	if err != nil {
		c.log.WithError(err).Error("Failed to load backups")
		return err
	}
	c.renderBackups(data.Backups)
	return nil
}

// RefreshVersions re-fetches versions and the dashboard summary, leaving backups alone.
func (c *Client) RefreshVersions(ctx context.Context) error {
	verr := c.LoadVersions(ctx)
	derr := c.LoadDashboardData(ctx)
	return errors.Join(verr, derr)
}

func (c *Client) renderCounts(versions migrationapi.VersionsResponse, status migrationapi.StatusResponse, backups migrationapi.BackupsResponse) {
	c.view.RenderCounts(
		countsFrom(versions, status, backups),
		ApplyButtonFor(status.PendingMigrations),
		NextMigrationID(versions.TotalCount),
	)
}

func (c *Client) renderVersions(versions []migrationapi.VersionRecord) {
	c.view.RenderVersions(versionRows(versions, c.location))
	c.view.RenderRollbackTargets(rollbackOptions(versions))
}

func (c *Client) renderBackups(backups []migrationapi.BackupRecord) {
	c.view.RenderBackups(backupRows(backups, c.location))
	c.view.RenderBackupOptions(backupOptions(backups, c.location))
}

// UploadMigration submits a new migration. Migration id, description, SQL
// content and access token are required; a missing field is reported without
// calling the API. On success the form is reset and versions and summary are
// re-fetched after the upload refresh delay.
func (c *Client) UploadMigration(ctx context.Context, form model.UploadForm) error {
	if form.GithubToken == "" && c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		switch {
		case err == nil:
			form.GithubToken = token
		case !errors.Is(err, apperrors.ErrSettingNotFound) && !errors.Is(err, apperrors.ErrTokenVaultDisabled):
			c.log.WithError(err).Warn("Failed to read remembered access token")
		}
	}

	if form.MigrationID == "" || form.Description == "" || form.SQLContent == "" || form.GithubToken == "" {
		c.view.ShowError(apperrors.ErrMissingUploadFields.Error())
		c.record(ctx, model.ActionUpload, model.ActivityRejected, apperrors.ErrMissingUploadFields.Error())
		return apperrors.ErrMissingUploadFields
	}

	if form.CommitMessage == "" {
		form.CommitMessage = CommitMessage(form.MigrationID, form.Description)
	}

	c.view.ShowLoading("Uploading migration to GitHub...")
	result, err := c.api.Upload(ctx, migrationapi.UploadRequest{
		MigrationID:   form.MigrationID,
		Description:   form.Description,
		Author:        form.Author,
		RiskLevel:     form.RiskLevel,
		SQLContent:    form.SQLContent,
		CommitMessage: form.CommitMessage,
		GithubToken:   form.GithubToken,
	})
	c.view.HideLoading()
	if err != nil {
		c.view.ShowError("Failed to upload migration: " + err.Error())
		c.record(ctx, model.ActionUpload, model.ActivityFailed, err.Error())
		return err
	}

	c.view.ShowSuccess(model.Notice{
		Title: "Migration uploaded successfully!",
		Lines: []model.NoticeLine{
			{Label: "File", Value: result.Filename},
			{Label: "Branch", Value: result.Branch},
			{Label: "Pull Request", Value: fmt.Sprintf("#%d", result.PRNumber), Href: result.PRURL},
		},
		Footer: "The CI workflow will automatically validate and test your migration.",
	})
	c.view.ResetUploadForm()
	c.record(ctx, model.ActionUpload, model.ActivitySucceeded,
		fmt.Sprintf("migration %s uploaded as %s, PR #%d", form.MigrationID, result.Filename, result.PRNumber))

	c.after(c.uploadRefreshDelay, func() {
		_ = c.LoadDashboardData(c.bgCtx)
		_ = c.LoadVersions(c.bgCtx)
	})
	return nil
}

// ApplyPendingMigrations applies every pending migration once confirm accepts.
// The backend creates a backup first; its filename is reported on success.
func (c *Client) ApplyPendingMigrations(ctx context.Context, confirm Confirm) error {
	if confirm == nil || !confirm(ApplyConfirmMessage) {
		c.record(ctx, model.ActionApply, model.ActivityRejected, apperrors.ErrConfirmationDeclined.Error())
		return apperrors.ErrConfirmationDeclined
	}

	c.view.ShowLoading("Applying pending migrations...")
	result, err := c.api.Apply(ctx)
	c.view.HideLoading()
	if err != nil {
		c.view.ShowError("Failed to apply migrations: " + err.Error())
		c.record(ctx, model.ActionApply, model.ActivityFailed, err.Error())
		return err
	}

	c.view.ShowSuccess(model.Notice{
		Title:   "Migrations applied successfully!",
		Message: result.Message,
		Lines: []model.NoticeLine{
			{Label: "Backup created", Value: result.BackupFile},
		},
	})
	c.record(ctx, model.ActionApply, model.ActivitySucceeded,
		fmt.Sprintf("%s (backup %s)", result.Message, result.BackupFile))

	_ = c.LoadDashboardData(ctx)
	_ = c.LoadVersions(ctx)
	_ = c.LoadBackups(ctx)
	return nil
}

// ExecuteRollback restores the database to form.TargetVersion from form.BackupFile.
// Both selections and the destructive acknowledgment are required. Rolling back
// the production environment additionally needs confirm to accept a data-loss warning.
func (c *Client) ExecuteRollback(ctx context.Context, form model.RollbackForm, confirm Confirm) error {
	if form.TargetVersion == "" || form.BackupFile == "" {
		c.view.ShowError(apperrors.ErrMissingRollbackSelection.Error())
		c.record(ctx, model.ActionRollback, model.ActivityRejected, apperrors.ErrMissingRollbackSelection.Error())
		return apperrors.ErrMissingRollbackSelection
	}

	if !form.Acknowledged {
		c.view.ShowError(apperrors.ErrRollbackNotAcknowledged.Error())
		c.record(ctx, model.ActionRollback, model.ActivityRejected, apperrors.ErrRollbackNotAcknowledged.Error())
		return apperrors.ErrRollbackNotAcknowledged
	}

	if form.Environment == ProductionEnvironment {
		if confirm == nil || !confirm(ProductionRollbackConfirmMessage) {
			c.record(ctx, model.ActionRollback, model.ActivityRejected, "production rollback not confirmed")
			return apperrors.ErrConfirmationDeclined
		}
	}

	c.view.ShowLoading(fmt.Sprintf("Rolling back to version %s...", form.TargetVersion))
	result, err := c.api.Rollback(ctx, migrationapi.RollbackRequest{
		TargetVersion: form.TargetVersion,
		BackupFile:    form.BackupFile,
		Environment:   form.Environment,
	})
	c.view.HideLoading()
	if err != nil {
		c.view.ShowError("Rollback failed: " + err.Error())
		c.record(ctx, model.ActionRollback, model.ActivityFailed, err.Error())
		return err
	}

	c.view.ShowSuccess(model.Notice{
		Title:   "Rollback completed successfully!",
		Message: result.Message,
		Lines: []model.NoticeLine{
			{Label: "Backup used", Value: result.BackupUsed},
			{Label: "Environment", Value: form.Environment},
		},
	})
	c.view.ResetRollbackForm()
	c.record(ctx, model.ActionRollback, model.ActivitySucceeded,
		fmt.Sprintf("rolled back %s to %s using %s", form.Environment, form.TargetVersion, result.BackupUsed))

	_ = c.LoadDashboardData(ctx)
	_ = c.LoadVersions(ctx)
	return nil
}

// CreateBackup asks the backend for a new database backup and refreshes the backup list.
func (c *Client) CreateBackup(ctx context.Context) error {
	c.view.ShowLoading("Creating database backup...")
	result, err := c.api.CreateBackup(ctx)
	c.view.HideLoading()
	if err != nil {
		c.view.ShowError("Failed to create backup: " + err.Error())
		c.record(ctx, model.ActionBackup, model.ActivityFailed, err.Error())
		return err
	}

	c.view.ShowSuccess(model.Notice{
		Title: "Backup created successfully!",
		Lines: []model.NoticeLine{
			{Label: "Filename", Value: result.Filename},
			{Label: "Size", Value: FormatFileSize(result.Size)},
			{Label: "Created", Value: formatDateTime(result.CreatedAt.InZone(c.location), c.location)},
		},
	})
	c.record(ctx, model.ActionBackup, model.ActivitySucceeded,
		fmt.Sprintf("%s (%s)", result.Filename, FormatFileSize(result.Size)))

	_ = c.LoadBackups(ctx)
	return nil
}

// PrepareRollback switches to the rollback tab with versionID pre-selected.
// Nothing is executed.
func (c *Client) PrepareRollback(versionID string) {
	c.view.ActivateTab(model.TabRollback)
	c.view.SelectRollbackTarget(versionID)
}

// UseBackupForRollback switches to the rollback tab with filename pre-selected.
// Nothing is executed.
func (c *Client) UseBackupForRollback(filename string) {
	c.view.ActivateTab(model.TabRollback)
	c.view.SelectBackup(filename)
}

// after schedules a one-shot job. Its cancel func is dropped once the job runs.
func (c *Client) after(delay time.Duration, job func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextDelayedID++
	id := c.nextDelayedID
	c.delayed[id] = c.scheduler.After(delay, func() {
		c.mu.Lock()
		delete(c.delayed, id)
		c.mu.Unlock()
		job()
	})
}

func (c *Client) record(ctx context.Context, action model.Action, status model.ActivityStatus, detail string) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(ctx, action, status, detail)
}
