package config

type Config struct {
	Site      SiteConfig      `json:"site"`
	Ledger    LedgerConfig    `json:"ledger"`
	Batch     BatchConfig     `json:"batch"`
	Message   MessageConfig   `json:"message,omitempty"`
	Delivery  DeliveryConfig  `json:"delivery,omitempty"`
	Platforms PlatformsConfig `json:"platforms"`
	History   HistoryConfig   `json:"history,omitempty"`
	Watch     WatchConfig     `json:"watch,omitempty"`
	Logging   LoggingConfig   `json:"logging"`
}

// SiteConfig describes the content repository being watched.
//
// RepoRoot must be a git work tree; revision markers default to HEAD~1..HEAD,
// matching "what did the last push publish".
type SiteConfig struct {
	BaseURL  string `json:"base_url"`
	RepoRoot string `json:"repo_root,omitempty"`
	// IndexDir holds the per-section JSON index files, relative to RepoRoot.
	IndexDir string `json:"index_dir,omitempty"`
	// IgnoreDirs are top-level directories that never contain content pages.
	IgnoreDirs []string `json:"ignore_dirs,omitempty"`
	PrevRev    string   `json:"prev_rev,omitempty"`
	CurrRev    string   `json:"curr_rev,omitempty"`
}

type LedgerConfig struct {
	// Path to the posted-URLs ledger JSON, relative to the repo root when not
	// absolute.
	Path string `json:"path,omitempty"`
}

type BatchConfig struct {
	// Path of the new-items handoff file written by detect and read by notify.
	Path string `json:"path,omitempty"`
}

type MessageConfig struct {
	Header       string `json:"header,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
	Hashtags     string `json:"hashtags,omitempty"`
}

// DeliveryConfig tunes the send loop.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type DeliveryConfig struct {
	// Throttle is the pause between successive sends on the same platform.
	Throttle string `json:"throttle,omitempty"`
	// Timeout bounds a single HTTP call to a platform API.
	Timeout string `json:"timeout,omitempty"`
}

type PlatformsConfig struct {
	Telegram TelegramConfig `json:"telegram,omitempty"`
	Twitter  TwitterConfig  `json:"twitter,omitempty"`
	LinkedIn LinkedInConfig `json:"linkedin,omitempty"`
}

// Platform credential fields may be set here, but environment variables always
// win so CI secrets never have to live in the config file. Enabled is a
// pointer so "omitted" (default true) is distinct from an explicit false.

type TelegramConfig struct {
	Enabled   *bool  `json:"enabled,omitempty"`
	Token     string `json:"token,omitempty"`      // env: TELEGRAM_BOT_TOKEN
	ChannelID string `json:"channel_id,omitempty"` // env: TELEGRAM_CHANNEL_ID
}

type TwitterConfig struct {
	Enabled      *bool  `json:"enabled,omitempty"`
	APIKey       string `json:"api_key,omitempty"`       // env: TWITTER_API_KEY
	APISecret    string `json:"api_secret,omitempty"`    // env: TWITTER_API_SECRET
	AccessToken  string `json:"access_token,omitempty"`  // env: TWITTER_ACCESS_TOKEN
	AccessSecret string `json:"access_secret,omitempty"` // env: TWITTER_ACCESS_SECRET
}

type LinkedInConfig struct {
	Enabled     *bool  `json:"enabled,omitempty"`
	AccessToken string `json:"access_token,omitempty"` // env: LINKEDIN_ACCESS_TOKEN
	OrgID       string `json:"org_id,omitempty"`       // env: LINKEDIN_ORG_ID
}

// HistoryConfig controls the optional delivery history store.
//
// Driver values:
//   - "file": dependency-free JSON Lines file
//   - "sqlite": SQLite database file
//
// If Driver is empty or "none", history is disabled.
type HistoryConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// WatchConfig controls daemon mode (the watch subcommand).
type WatchConfig struct {
	// Schedule is a standard 5-field cron spec; empty disables timed runs.
	Schedule string `json:"schedule,omitempty"`
	// Debounce coalesces bursts of filesystem events into one pipeline run.
	Debounce string `json:"debounce,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}
