// Package history records every (item, platform) delivery attempt for later
// inspection. It is an observability aid, not pipeline state: the ledger alone
// decides what gets re-sent, and history failures never affect a run.
package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"announcer/pkg/logx"
)

var ErrDisabled = errors.New("history disabled")

// Config configures the history store.
//
// Driver values:
//   - "file": dependency-free JSON Lines file
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", history is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryRecord is one delivery attempt outcome.
// Keep it compact and schema-stable.
type DeliveryRecord struct {
	At       time.Time `json:"at"`
	URL      string    `json:"url"`
	Title    string    `json:"title,omitempty"`
	Platform string    `json:"platform"`
	OK       bool      `json:"ok"`
	Reason   string    `json:"reason,omitempty"`
	DryRun   bool      `json:"dry_run,omitempty"`
}

// Store is the minimal persistence API used by the orchestrator and doctor.
type Store interface {
	AppendDelivery(ctx context.Context, rec DeliveryRecord) error
	Recent(ctx context.Context, n int) ([]DeliveryRecord, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if history is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown history driver: " + driver)
	}
}
