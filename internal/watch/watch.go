// Package watch runs the pipeline as a long-lived daemon: on a cron schedule,
// on filesystem changes under the index directory, or both. Triggers are
// debounced and serialized; a trigger that arrives mid-run coalesces into one
// pending re-run, because concurrent pipeline invocations would race on the
// ledger file.
package watch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"announcer/pkg/logx"
)

type Config struct {
	// Schedule is a standard 5-field cron spec; empty disables timed runs.
	Schedule string
	// Debounce coalesces bursts of file events into one run.
	Debounce time.Duration
	// IndexDir is the directory whose JSON index files trigger runs.
	// Empty disables filesystem triggers.
	IndexDir string
}

type Service struct {
	cfg Config
	run func(ctx context.Context)
	log logx.Logger
}

// New wires a daemon around run, which executes one full pipeline pass.
func New(cfg Config, run func(ctx context.Context), log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	return &Service{cfg: cfg, run: run, log: log}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Schedule == "" && s.cfg.IndexDir == "" {
		return errors.New("watch: neither schedule nor index dir configured")
	}

	// Capacity 1: a trigger during a run becomes exactly one pending re-run.
	triggers := make(chan string, 1)
	fire := func(src string) {
		select {
		case triggers <- src:
		default:
		}
	}

	var c *cron.Cron
	if s.cfg.Schedule != "" {
		c = cron.New()
		if _, err := c.AddFunc(s.cfg.Schedule, func() { fire("schedule") }); err != nil {
			return errors.New("watch: invalid cron spec " + s.cfg.Schedule + ": " + err.Error())
		}
		c.Start()
		defer c.Stop()
		s.log.Info("schedule armed", logx.String("spec", s.cfg.Schedule))
	}

	if s.cfg.IndexDir != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Add(s.cfg.IndexDir); err != nil {
			return err
		}
		s.log.Info("index dir watched", logx.String("dir", s.cfg.IndexDir))
		go s.debounce(ctx, w, fire)
	}

	s.notifyReady(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case src := <-triggers:
			s.log.Info("pipeline triggered", logx.String("source", src))
			s.run(ctx)
		}
	}
}

// debounce folds bursts of editor/CI write events into one trigger.
func (s *Service) debounce(ctx context.Context, w *fsnotify.Watcher, fire func(string)) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.cfg.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.cfg.Debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", logx.Err(err))
		case <-timerC:
			timer = nil
			timerC = nil
			fire("fsnotify")
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".json") {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

// notifyReady tells systemd we are up and keeps the watchdog fed when one is
// configured. Both calls are no-ops outside a systemd unit.
func (s *Service) notifyReady(ctx context.Context) {
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		s.log.Debug("sd_notify unavailable", logx.Err(err))
	} else if ok {
		s.log.Info("systemd notified ready")
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
}
