package main

import (
	"context"

	"github.com/spf13/cobra"

	"announcer/internal/feed"
	"announcer/internal/orchestrator"
	"announcer/pkg/logx"
)

var (
	notifyDryRun    bool
	notifyPlatforms string
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Deliver the pending item batch to all configured platforms",
	Long: `notify reads the handoff file written by detect and announces each item on
every configured platform, committing the ledger per item only when all
configured platforms succeed. The command always exits 0; delivery failures
are reported through log lines only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		items, err := feed.ReadBatch(a.cfg.Batch.Path)
		if err != nil {
			// Malformed handoff is a fail-closed no-op, not a failure.
			a.log.Warn("batch file unreadable, nothing to do", logx.String("path", a.cfg.Batch.Path), logx.Err(err))
			return nil
		}
		runNotify(cmd.Context(), a, items)
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Detect and notify in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		items := runDetect(cmd.Context(), a)
		// Keep the handoff file in sync for operators tailing the pipeline.
		if err := feed.WriteBatch(a.cfg.Batch.Path, items); err != nil {
			a.log.Warn("batch write failed", logx.String("path", a.cfg.Batch.Path), logx.Err(err))
		}
		runNotify(cmd.Context(), a, items)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{notifyCmd, runCmd} {
		c.Flags().BoolVar(&notifyDryRun, "dry-run", false, "log what would be sent without dialing any platform")
		c.Flags().StringVar(&notifyPlatforms, "platforms", "", "comma-separated platform subset (telegram,twitter,linkedin)")
	}
}

func runNotify(ctx context.Context, a *app, items []feed.Item) {
	adapters, err := a.adapters(notifyPlatforms)
	if err != nil {
		a.log.Warn("no platforms selected", logx.Err(err))
		return
	}

	st := a.history()
	if st != nil {
		defer st.Close()
	}

	o := &orchestrator.Orchestrator{
		Ledger:    a.ledger(),
		Formatter: a.formatter(),
		Adapters:  adapters,
		History:   st,
		Throttle:  a.throttle(),
		DryRun:    notifyDryRun,
		Log:       a.log,
	}
	o.Run(ctx, items)
}
