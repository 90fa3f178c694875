package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"announcer/internal/feed"
	"announcer/internal/gitrepo"
	"announcer/internal/scan"
	"announcer/pkg/logx"
)

var (
	detectPrev    string
	detectCurr    string
	detectBaseURL string
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Scan the content repository for newly published items",
	Long: `detect diffs the previous and current repository revisions, merges items
found via JSON index files and via added HTML pages, and writes the resulting
batch to the handoff file for notify to consume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		items := runDetect(cmd.Context(), a)
		if err := feed.WriteBatch(a.cfg.Batch.Path, items); err != nil {
			a.log.Warn("batch write failed", logx.String("path", a.cfg.Batch.Path), logx.Err(err))
		}
		fmt.Printf("%d new item(s)\n", len(items))
		return nil
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectPrev, "prev", "", "previous revision (default: config / HEAD~1)")
	detectCmd.Flags().StringVar(&detectCurr, "curr", "", "current revision (default: config / HEAD)")
	detectCmd.Flags().StringVar(&detectBaseURL, "base-url", "", "override the site base url from config")
}

func runDetect(ctx context.Context, a *app) []feed.Item {
	prev := detectPrev
	if prev == "" {
		prev = a.cfg.Site.PrevRev
	}
	curr := detectCurr
	if curr == "" {
		curr = a.cfg.Site.CurrRev
	}
	baseURL := detectBaseURL
	if baseURL == "" {
		baseURL = a.cfg.Site.BaseURL
	}

	s := &scan.Scanner{
		Repo:       gitrepo.Repo{Dir: a.cfg.Site.RepoRoot},
		BaseURL:    baseURL,
		IndexDir:   a.cfg.Site.IndexDir,
		IgnoreDirs: a.cfg.Site.IgnoreDirs,
		Ledger:     a.ledger(),
		Log:        a.log,
	}
	items := s.Scan(ctx, prev, curr)
	a.log.Info("detection complete", logx.Int("items", len(items)))
	return items
}
