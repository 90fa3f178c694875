package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultIgnoreDirs are repo top-level directories that never hold content
// pages (site chrome, tooling, VCS internals).
var DefaultIgnoreDirs = []string{
	"assets", "scripts", "components", "templates", "node_modules", ".github", ".git",
}

const (
	defaultIndexDir   = "assets/data"
	defaultLedgerPath = "assets/data/social-posts.json"
	defaultBatchPath  = "/tmp/new-posts.json"
	defaultThrottle   = time.Second
	defaultTimeout    = 10 * time.Second
	defaultDebounce   = 2 * time.Second
)

// Load reads, strictly decodes, and normalizes the config file. YAML files are
// coerced to JSON bytes first so both formats share one strict decoder.
// Environment credentials are applied on top of file values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Site.RepoRoot) == "" {
		c.Site.RepoRoot = "."
	}
	if strings.TrimSpace(c.Site.IndexDir) == "" {
		c.Site.IndexDir = defaultIndexDir
	}
	if len(c.Site.IgnoreDirs) == 0 {
		c.Site.IgnoreDirs = append([]string(nil), DefaultIgnoreDirs...)
	}
	if strings.TrimSpace(c.Site.PrevRev) == "" {
		c.Site.PrevRev = "HEAD~1"
	}
	if strings.TrimSpace(c.Site.CurrRev) == "" {
		c.Site.CurrRev = "HEAD"
	}
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	if strings.TrimSpace(c.Batch.Path) == "" {
		c.Batch.Path = defaultBatchPath
	}
}

// applyEnv lets CI secrets override anything in the file.
func (c *Config) applyEnv() {
	overlay(&c.Platforms.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	overlay(&c.Platforms.Telegram.ChannelID, "TELEGRAM_CHANNEL_ID")
	overlay(&c.Platforms.Twitter.APIKey, "TWITTER_API_KEY")
	overlay(&c.Platforms.Twitter.APISecret, "TWITTER_API_SECRET")
	overlay(&c.Platforms.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	overlay(&c.Platforms.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")
	overlay(&c.Platforms.LinkedIn.AccessToken, "LINKEDIN_ACCESS_TOKEN")
	overlay(&c.Platforms.LinkedIn.OrgID, "LINKEDIN_ORG_ID")
	overlay(&c.Site.BaseURL, "BASE_URL")
}

func overlay(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Site.BaseURL) == "" {
		return errors.New("site.base_url is required")
	}
	if _, err := c.ThrottleDuration(); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, err := ParseDurationField("history.busy_timeout", c.History.BusyTimeout); err != nil {
		return err
	}
	return nil
}

func (c *Config) ThrottleDuration() (time.Duration, error) {
	return ParseDurationOrDefault("delivery.throttle", c.Delivery.Throttle, defaultThrottle)
}

func (c *Config) TimeoutDuration() (time.Duration, error) {
	return ParseDurationOrDefault("delivery.timeout", c.Delivery.Timeout, defaultTimeout)
}

func (c *Config) DebounceDuration() (time.Duration, error) {
	return ParseDurationOrDefault("watch.debounce", c.Watch.Debounce, defaultDebounce)
}

// LedgerFile resolves the ledger path against the repo root.
func (c *Config) LedgerFile() string {
	return resolveUnder(c.Site.RepoRoot, c.Ledger.Path)
}

// IndexDirPath resolves the index dir against the repo root.
func (c *Config) IndexDirPath() string {
	return resolveUnder(c.Site.RepoRoot, c.Site.IndexDir)
}

func resolveUnder(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Enabled interprets an optional enabled flag: omitted means true.
func Enabled(b *bool) bool { return b == nil || *b }
