package commands

import (
	"github.com/spf13/cobra"

	"github.com/you-humble/stockledger/internal/app"
	"github.com/you-humble/stockledger/platform/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger HTTP server",
	Long: `Apply pending migrations and serve the ledger API on SERVER_HOST:SERVER_PORT.
When KAFKA_ENABLED is set, operations are published as ledger events and the
low stock watcher runs alongside the server.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := app.New(ctx)
		if err != nil {
			app.Shutdown()
			return err
		}

		if err := a.Run(ctx); err != nil {
			logger.Error(ctx, "❌😵‍💫 ledger server stopped with error", logger.ErrorF(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
