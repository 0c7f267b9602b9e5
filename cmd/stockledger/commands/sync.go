package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/you-humble/stockledger/internal/app"
	"github.com/you-humble/stockledger/internal/config"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/internal/reconciler"
	"github.com/you-humble/stockledger/platform/logger"
)

var (
	// Sync flags
	discardPending bool
)

var (
	errNoSyncToken    = errors.New("SYNC_TOKEN is not set")
	errPendingChanges = errors.New("local changes are not pushed yet; run `sync push` or pass --discard")
	errNotSynced      = errors.New("ledger server unreachable, working from the local cache")
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Keep a local snapshot cache in step with a ledger server",
	Long: `The sync client caches the owner's full snapshot locally (SYNC_CACHE_BACKEND
file or redis). Changes made while the server is unreachable are pushed later as
one whole snapshot; the last successful push wins.

Subcommands:
  pull    - Replace the cache with the server snapshot
  push    - Push pending local changes
  status  - Show the sync state
  run     - Push pending changes every SYNC_FLUSH_INTERVAL until interrupted`,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the cache with the server snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		defer app.Shutdown()

		rec, ownerID, err := openSession(ctx)
		if err != nil {
			return err
		}

		if rec.Status().Pending {
			if !discardPending {
				return errPendingChanges
			}
			if err := rec.Login(ctx, ownerID); err != nil {
				return err
			}
		}

		if err := printStatus(cmd, rec); err != nil {
			return err
		}
		if rec.Status().State != reconciler.StateSynced {
			return errNotSynced
		}
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push pending local changes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		defer app.Shutdown()

		rec, _, err := openSession(ctx)
		if err != nil {
			return err
		}

		if err := rec.Flush(ctx); err != nil {
			_ = printStatus(cmd, rec)
			return err
		}

		return printStatus(cmd, rec)
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		defer app.Shutdown()

		rec, _, err := openSession(ctx)
		if err != nil {
			return err
		}

		return printStatus(cmd, rec)
	},
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Push pending changes every SYNC_FLUSH_INTERVAL until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		defer app.Shutdown()

		rec, ownerID, err := openSession(ctx)
		if err != nil {
			return err
		}

		logger.Info(ctx, "🚀 sync client running",
			logger.Int64("owner_id", ownerID),
			logger.String("server", config.C().Sync.ServerURL()),
			logger.Duration("interval", config.C().Sync.FlushInterval()),
		)

		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			return rec.Run(egCtx)
		})
		eg.Go(func() error {
			<-egCtx.Done()

			// One last push before exit.
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.C().Sync.RequestTimeout())
			defer cancel()

			if err := rec.Flush(fctx); err != nil {
				logger.Warn(fctx, "final flush", logger.ErrorF(err))
			}
			return nil
		})

		return eg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPullCmd, syncPushCmd, syncStatusCmd, syncRunCmd)

	syncPullCmd.Flags().BoolVar(&discardPending, "discard", false, "Discard local changes that were not pushed")
}

// openSession binds the configured reconciler to the owner named by
// SYNC_TOKEN, resuming pending local changes when there are any.
func openSession(ctx context.Context) (*reconciler.Reconciler, int64, error) {
	d, err := app.Bootstrap(ctx)
	if err != nil {
		return nil, 0, err
	}

	token := config.C().Sync.Token()
	if token == "" {
		return nil, 0, errNoSyncToken
	}

	ownerID, err := owner.OwnerOf(token)
	if err != nil {
		return nil, 0, err
	}

	rec := d.Reconciler(ctx)
	if err := rec.Resume(ctx, ownerID); err != nil {
		return nil, 0, err
	}

	return rec, ownerID, nil
}

func printStatus(cmd *cobra.Command, rec *reconciler.Reconciler) error {
	st := rec.Status()
	snap := rec.Snapshot()

	if jsonOutput {
		return printJSON(cmd, struct {
			reconciler.Status
			Products     int `json:"products"`
			Operations   int `json:"operations"`
			Reservations int `json:"reservations"`
			Reminders    int `json:"reminders"`
		}{
			Status:       st,
			Products:     len(snap.Products),
			Operations:   len(snap.Operations),
			Reservations: len(snap.Reservations),
			Reminders:    len(snap.Reminders),
		})
	}

	lastSync := "never"
	if st.LastSync != nil {
		lastSync = st.LastSync.Local().Format(time.DateTime)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "OWNER\t%d\n", st.OwnerID)
	_, _ = fmt.Fprintf(w, "STATE\t%s\n", st.State)
	_, _ = fmt.Fprintf(w, "PENDING\t%t\n", st.Pending)
	_, _ = fmt.Fprintf(w, "LAST SYNC\t%s\n", lastSync)
	_, _ = fmt.Fprintf(w, "PRODUCTS\t%d\n", len(snap.Products))
	_, _ = fmt.Fprintf(w, "OPERATIONS\t%d\n", len(snap.Operations))
	_, _ = fmt.Fprintf(w, "RESERVATIONS\t%d\n", len(snap.Reservations))
	_, _ = fmt.Fprintf(w, "REMINDERS\t%d\n", len(snap.Reminders))
	return w.Flush()
}
