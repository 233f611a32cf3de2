package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/model"
	"github.com/ndewijer/Migration-Dashboard/internal/terminal"
)

var (
	uploadForm model.UploadForm
	sqlFile    string

	rollbackForm  model.RollbackForm
	assumeYes     bool
	assumeYesProd bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a migration and open a pull request for it",
	Long: `Upload sends a SQL migration to the migration API, which commits it to a
new branch and opens a pull request.

Example:
  migdash upload --description "add audit table" --file 004_audit.sql
  cat 004_audit.sql | migdash upload --id 004 --description "add audit table" --file -`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sqlFile != "" {
			content, err := readSQL(cmd, sqlFile)
			if err != nil {
				return err
			}
			uploadForm.SQLContent = content
		}

		return withDashboard(cmd, nil, func(ctx context.Context, client *dashboard.Client, view *terminal.View) error {
			if uploadForm.MigrationID == "" {
				id, err := suggestedMigrationID(ctx, client, view)
				if err != nil {
					return err
				}
				uploadForm.MigrationID = id
				fmt.Fprintf(cmd.OutOrStdout(), "Using migration id %s\n", id)
			}
			return reported(client.UploadMigration(ctx, uploadForm))
		})
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply all pending migrations (a backup is created first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, nil, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			err := client.ApplyPendingMigrations(ctx, terminal.Confirm(assumeYes))
			if errors.Is(err, apperrors.ErrConfirmationDeclined) {
				return err
			}
			return reported(err)
		})
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the database to a version from a backup",
	Long: `Rollback restores the database of an environment from a backup and
marks the target version as current. Data written after the backup is lost.

Without --target or --backup the choices are offered interactively.
Rolling back prod asks for a second confirmation unless --yes-production is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, nil, func(ctx context.Context, client *dashboard.Client, view *terminal.View) error {
			if err := chooseRollback(ctx, client, view); err != nil {
				return err
			}

			form := rollbackForm
			form.Acknowledged = terminal.Confirm(assumeYes)(
				fmt.Sprintf("Roll back %s to %s using %s? This operation is destructive.", form.Environment, form.TargetVersion, form.BackupFile))

			err := client.ExecuteRollback(ctx, form, terminal.Confirm(assumeYesProd))
			if errors.Is(err, apperrors.ErrConfirmationDeclined) {
				return err
			}
			return reported(err)
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a database backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, nil, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			return reported(client.CreateBackup(ctx))
		})
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadForm.MigrationID, "id", "", "Migration id (default: next free id)")
	uploadCmd.Flags().StringVarP(&uploadForm.Description, "description", "d", "", "Short description")
	uploadCmd.Flags().StringVarP(&uploadForm.Author, "author", "a", os.Getenv("USER"), "Author")
	uploadCmd.Flags().StringVarP(&uploadForm.RiskLevel, "risk", "r", "low", "Risk level: low, medium or high")
	uploadCmd.Flags().StringVarP(&sqlFile, "file", "f", "", "SQL file to upload, - for stdin")
	uploadCmd.Flags().StringVarP(&uploadForm.CommitMessage, "commit-message", "m", "", `Commit message (default "Add migration <id>: <description>")`)
	uploadCmd.Flags().StringVar(&uploadForm.GithubToken, "token", "", "GitHub access token (default: remembered token)")

	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	rollbackCmd.Flags().StringVarP(&rollbackForm.TargetVersion, "target", "t", "", "Version to roll back to")
	rollbackCmd.Flags().StringVarP(&rollbackForm.BackupFile, "backup", "b", "", "Backup file to restore")
	rollbackCmd.Flags().StringVarP(&rollbackForm.Environment, "env", "e", "dev", "Environment: dev, staging or prod")
	rollbackCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Acknowledge the destructive operation without asking")
	rollbackCmd.Flags().BoolVar(&assumeYesProd, "yes-production", false, "Skip the extra confirmation for prod")
}

// reported replaces an action error with errReported; the view has already shown it.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return errReported
}

func readSQL(cmd *cobra.Command, path string) (string, error) {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read SQL: %w", err)
	}
	return string(content), nil
}

func suggestedMigrationID(ctx context.Context, client *dashboard.Client, view *terminal.View) (string, error) {
	if err := client.LoadDashboardData(ctx); err != nil {
		return "", fmt.Errorf("failed to determine next migration id: %w", err)
	}
	return view.NextMigrationID(), nil
}

// chooseRollback fills missing rollback selections interactively.
func chooseRollback(ctx context.Context, client *dashboard.Client, view *terminal.View) error {
	if rollbackForm.TargetVersion != "" && rollbackForm.BackupFile != "" {
		return nil
	}

	if err := client.LoadVersions(ctx); err != nil {
		return errReported
	}
	if err := client.LoadBackups(ctx); err != nil {
		return err
	}

	var err error
	if rollbackForm.TargetVersion == "" {
		rollbackForm.TargetVersion, err = terminal.Select("Target version", view.RollbackTargets(), "")
		if err != nil {
			return err
		}
	}
	if rollbackForm.BackupFile == "" {
		rollbackForm.BackupFile, err = terminal.Select("Backup to restore", view.BackupOptions(), "")
		if err != nil {
			return err
		}
	}
	return nil
}
