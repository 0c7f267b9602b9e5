package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/you-humble/stockledger/internal/app"
	"github.com/you-humble/stockledger/internal/config"
	"github.com/you-humble/stockledger/platform/logger"
)

var errKafkaDisabled = errors.New("kafka is disabled, set KAFKA_ENABLED=true")

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch published ledger events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report products that fall below their minimum stock",
	Long: `Consume the ledger events topic and log a warning for every product whose
stock drops below its minimum. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		defer app.Shutdown()

		d, err := app.Bootstrap(ctx)
		if err != nil {
			return err
		}
		if !config.C().Kafka.Enabled() {
			return errKafkaDisabled
		}

		logger.Info(ctx, "🚀 watching ledger events",
			logger.String("topic", config.C().Kafka.LedgerEventsTopic()),
		)
		return d.LowStockWatcher(ctx).RunLowStockWatch(ctx)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
