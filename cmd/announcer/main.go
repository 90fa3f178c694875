// Command announcer publishes notifications about newly added site content to
// Telegram, Twitter and LinkedIn, keeping a durable ledger so nothing is ever
// announced twice.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"announcer/internal/config"
	"announcer/internal/history"
	"announcer/internal/ledger"
	"announcer/internal/message"
	"announcer/internal/platform"
	"announcer/internal/platform/linkedin"
	"announcer/internal/platform/telegram"
	"announcer/internal/platform/twitter"
	"announcer/pkg/logx"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "announcer",
	Short: "Announce newly published site content on social platforms",
	Long: `announcer detects content items newly added to a static site repository,
deduplicates them, and announces each one on every configured platform at most
once, tracking successful deliveries in a JSON ledger.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./announcer.yaml", "path to config file (yaml or json)")

	rootCmd.AddCommand(detectCmd, notifyCmd, runCmd, watchCmd, doctorCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

// app bundles everything a subcommand needs. Only an unusable invocation
// (unreadable config) errors; delivery failures later never do.
type app struct {
	cfg   *config.Config
	log   logx.Logger
	close func()
}

func setup() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logCfg := logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
	if !logCfg.Console && !logCfg.File.Enabled {
		logCfg.Console = true
	}
	log, closeLog := logx.New(logCfg)

	return &app{cfg: cfg, log: log, close: func() { _ = closeLog() }}, nil
}

func (a *app) ledger() *ledger.Ledger {
	return ledger.New(a.cfg.LedgerFile(), a.log)
}

func (a *app) formatter() message.Formatter {
	return message.Formatter{
		Header:       a.cfg.Message.Header,
		CallToAction: a.cfg.Message.CallToAction,
		Hashtags:     a.cfg.Message.Hashtags,
	}
}

// adapters builds every platform adapter, optionally filtered to a
// comma-separated allow list. Unconfigured adapters are still included: they
// skip themselves and their absence from the configured set is what the
// commit rule keys on.
func (a *app) adapters(only string) ([]platform.Adapter, error) {
	timeout, err := a.cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	all := []platform.Adapter{
		telegram.New(a.cfg.Platforms.Telegram, timeout, a.log),
		twitter.New(a.cfg.Platforms.Twitter, timeout, a.log),
		linkedin.New(a.cfg.Platforms.LinkedIn, timeout, a.log),
	}
	if strings.TrimSpace(only) == "" {
		return all, nil
	}

	want := map[string]bool{}
	for _, name := range strings.Split(only, ",") {
		want[strings.TrimSpace(strings.ToLower(name))] = true
	}
	var out []platform.Adapter
	for _, ad := range all {
		if want[ad.Name()] {
			out = append(out, ad)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no known platform in %q", only)
	}
	return out, nil
}

func (a *app) history() history.Store {
	busy, err := config.ParseDurationField("history.busy_timeout", a.cfg.History.BusyTimeout)
	if err != nil {
		busy = 0
	}
	st, err := history.Open(history.Config{
		Driver:      a.cfg.History.Driver,
		Path:        a.cfg.History.Path,
		BusyTimeout: busy,
	}, a.log)
	if err != nil {
		a.log.Warn("history store unavailable", logx.Err(err))
		return nil
	}
	return st
}

func (a *app) throttle() time.Duration {
	d, err := a.cfg.ThrottleDuration()
	if err != nil {
		return time.Second
	}
	return d
}
