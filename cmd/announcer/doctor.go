package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"announcer/internal/feed"
	"announcer/internal/gitrepo"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Print pipeline diagnostics (secrets, ledger, index files, git)",
	Long: `doctor reports the health of everything the pipeline depends on: which
platform secrets are present, whether the ledger and index files parse, and
whether git is runnable. It never fails; missing pieces are findings, not
errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("=== announcer diagnostics ===")

		fmt.Println("\nplatform secrets:")
		report("telegram", a.cfg.Platforms.Telegram.Token != "" && a.cfg.Platforms.Telegram.ChannelID != "")
		report("twitter", a.cfg.Platforms.Twitter.APIKey != "" && a.cfg.Platforms.Twitter.APISecret != "" &&
			a.cfg.Platforms.Twitter.AccessToken != "" && a.cfg.Platforms.Twitter.AccessSecret != "")
		report("linkedin", a.cfg.Platforms.LinkedIn.AccessToken != "" && a.cfg.Platforms.LinkedIn.OrgID != "")

		fmt.Println("\ntooling:")
		if gitrepo.Available(cmd.Context()) {
			fmt.Println("  git: ok")
		} else {
			fmt.Println("  git: MISSING")
		}

		fmt.Println("\nledger:")
		l := a.ledger()
		if _, err := os.Stat(l.Path()); err != nil {
			fmt.Printf("  %s: MISSING (will start empty)\n", l.Path())
		} else {
			fmt.Printf("  %s: OK (%d entries)\n", l.Path(), len(l.Entries()))
		}

		fmt.Println("\nindex files:")
		dir := a.cfg.IndexDirPath()
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Printf("  %s: MISSING\n", dir)
		} else {
			n := 0
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				n++
				path := filepath.Join(dir, e.Name())
				if validJSON(path) {
					fmt.Printf("  %s: OK\n", e.Name())
				} else {
					fmt.Printf("  %s: INVALID\n", e.Name())
				}
			}
			if n == 0 {
				fmt.Printf("  %s: no json files\n", dir)
			}
		}

		fmt.Println("\nbatch file:")
		items, err := feed.ReadBatch(a.cfg.Batch.Path)
		switch {
		case err != nil:
			fmt.Printf("  %s: INVALID (%v)\n", a.cfg.Batch.Path, err)
		case items == nil:
			fmt.Printf("  %s: missing (nothing pending)\n", a.cfg.Batch.Path)
		default:
			fmt.Printf("  %s: %d pending item(s)\n", a.cfg.Batch.Path, len(items))
		}

		if st := a.history(); st != nil {
			defer st.Close()
			if recent, err := st.Recent(cmd.Context(), 10); err == nil {
				fmt.Printf("\nhistory: %d recent delivery record(s)\n", len(recent))
			}
		}

		return nil
	},
}

func report(name string, ok bool) {
	if ok {
		fmt.Printf("  %s: present\n", name)
	} else {
		fmt.Printf("  %s: MISSING\n", name)
	}
}

func validJSON(path string) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var v any
	return json.Unmarshal(b, &v) == nil
}
