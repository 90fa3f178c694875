package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"announcer/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run as a daemon, announcing on schedule and on index changes",
	Long: `watch keeps the pipeline running: a cron schedule and/or filesystem changes
under the index directory trigger a full detect+notify pass. Triggers are
debounced and serialized so runs never overlap on the ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		debounce, err := a.cfg.DebounceDuration()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		svc := watch.New(watch.Config{
			Schedule: a.cfg.Watch.Schedule,
			Debounce: debounce,
			IndexDir: a.cfg.IndexDirPath(),
		}, func(ctx context.Context) {
			items := runDetect(ctx, a)
			runNotify(ctx, a, items)
		}, a.log)

		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
