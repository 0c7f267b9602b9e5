package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags
var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "stockledger",
	Short: "Stockledger - event-sourced inventory ledger",
	Long: `Stockledger keeps an append-only journal of stock operations per owner and
derives current stock, reservations and customer debt from it.

Commands:
  serve    - Run the ledger HTTP server
  migrate  - Manage the database schema
  sync     - Keep a local snapshot cache in step with a ledger server
  events   - Watch published ledger events
  token    - Issue bearer tokens`,
	SilenceUsage: true,
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
