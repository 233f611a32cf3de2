package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Migration-Dashboard/internal/dashboard"
	"github.com/ndewijer/Migration-Dashboard/internal/terminal"
)

var historyLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied, pending and total migrations and the backup count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, []terminal.Section{terminal.SectionCounts}, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			return client.LoadDashboardData(ctx)
		})
	},
}

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List migration versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, []terminal.Section{terminal.SectionVersions}, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			if err := client.LoadVersions(ctx); err != nil {
				return errReported
			}
			return nil
		})
	},
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List database backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, []terminal.Section{terminal.SectionBackups}, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			return client.LoadBackups(ctx)
		})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the dashboard summary and refresh it periodically until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd, []terminal.Section{terminal.SectionCounts, terminal.SectionVersions}, func(ctx context.Context, client *dashboard.Client, _ *terminal.View) error {
			client.Init(ctx)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)
			<-quit
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent dashboard actions recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		history, err := a.ActivityService.RecentActivity(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if history.Count == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"When", "Action", "Status", "Detail"})
		for _, h := range history.Activities {
			table.Append([]string{
				h.CreatedAt.Local().Format(time.DateTime),
				string(h.Action),
				string(h.Status),
				h.Detail,
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
}

// withDashboard opens the app, builds a dashboard client rendering the given
// sections to the command output, and runs fn with it.
func withDashboard(cmd *cobra.Command, sections []terminal.Section, fn func(ctx context.Context, client *dashboard.Client, view *terminal.View) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	view := terminal.NewView(cmd.OutOrStdout(), sections...)
	client := a.NewDashboard(view)
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, client, view)
}
