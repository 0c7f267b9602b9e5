package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/you-humble/stockledger/internal/app"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Run goose migrations from MIGRATION_DIRECTORY against the configured Postgres.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the last migration
  status  - Show migration status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd, "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd, "down")
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd, "status")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func runMigrate(cmd *cobra.Command, direction string) error {
	ctx := cmd.Context()
	defer app.Shutdown()

	d, err := app.Bootstrap(ctx)
	if err != nil {
		return err
	}

	m := d.Migrator(ctx)
	out := cmd.OutOrStdout()

	switch direction {
	case "up":
		applied, err := m.Up(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]any{"applied": applied})
		}
		if len(applied) == 0 {
			_, _ = fmt.Fprintln(out, "No pending migrations")
			return nil
		}
		for _, v := range applied {
			_, _ = fmt.Fprintf(out, "Applied %d\n", v)
		}
		return nil

	case "down":
		version, err := m.Down(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, map[string]any{"rolledBack": version})
		}
		_, _ = fmt.Fprintf(out, "Rolled back %d\n", version)
		return nil

	default:
		list, err := m.Status(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd, list)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
		for _, s := range list {
			state, at := "pending", "-"
			if s.Applied {
				state = "applied"
				at = s.AppliedAt.Local().Format(time.DateTime)
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, state, at, s.Source)
		}
		return w.Flush()
	}
}
