// Package platform defines the uniform contract every delivery adapter
// implements, plus the per-send outcome type the orchestrator aggregates.
//
// Adapters never let a transport or auth error escape: every failure mode is
// folded into a Result so one broken platform can't take down the run.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// SkipReason classifies a non-delivery. Ephemeral, never persisted.
type SkipReason string

const (
	ReasonNone           SkipReason = ""
	ReasonAlreadyPosted  SkipReason = "already_posted"
	ReasonMissingSecrets SkipReason = "missing_secrets"
	ReasonTransport      SkipReason = "transport_error"
)

// Result is the outcome of one (item, platform) delivery attempt.
type Result struct {
	OK     bool
	Reason SkipReason
}

func Delivered() Result { return Result{OK: true} }

func Skipped(r SkipReason) Result { return Result{Reason: r} }

// Adapter delivers one formatted message to exactly one external platform.
type Adapter interface {
	// Name is the stable platform identifier used in the ledger and logs.
	Name() string
	// Configured reports whether every secret the platform needs is present.
	// An unconfigured adapter must skip without any network call.
	Configured() bool
	// Limit is the platform's hard message length in runes; 0 means unbounded.
	Limit() int
	// Send delivers text. It never panics and never returns an error: every
	// failure is a Result with OK=false.
	Send(ctx context.Context, text string) Result
}

// PostJSON issues a JSON POST and returns the status code plus a bounded body
// snippet for diagnostics. Shared by the plain-HTTP adapters.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) (int, string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	// Response bodies are logged on failure; cap them so a misbehaving API
	// can't flood the logs.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return resp.StatusCode, string(body), nil
}
