// Package twitter delivers announcements through the Twitter v2 API using
// OAuth 1.0a user-context signing.
package twitter

import (
	"context"
	"net/http"
	"time"

	"announcer/internal/config"
	"announcer/internal/platform"
	"announcer/internal/platform/oauth1"
	"announcer/pkg/logx"
)

const (
	defaultAPIURL = "https://api.twitter.com/2/tweets"

	// Tweet length is counted in characters, not bytes.
	messageLimit = 280
)

type Adapter struct {
	creds   oauth1.Credentials
	enabled bool
	log     logx.Logger

	client *http.Client

	// Overridable for tests.
	apiURL string
	nonce  func() string
	now    func() time.Time
}

func New(cfg config.TwitterConfig, timeout time.Duration, log logx.Logger) *Adapter {
	return &Adapter{
		creds: oauth1.Credentials{
			ConsumerKey:    cfg.APIKey,
			ConsumerSecret: cfg.APISecret,
			AccessToken:    cfg.AccessToken,
			AccessSecret:   cfg.AccessSecret,
		},
		enabled: config.Enabled(cfg.Enabled),
		log:     log.With(logx.String("platform", "twitter")),
		client:  &http.Client{Timeout: timeout},
		apiURL:  defaultAPIURL,
		nonce:   oauth1.Nonce,
		now:     time.Now,
	}
}

func (a *Adapter) Name() string { return "twitter" }

func (a *Adapter) Limit() int { return messageLimit }

func (a *Adapter) Configured() bool {
	return a.enabled && a.creds.Complete()
}

func (a *Adapter) Send(ctx context.Context, text string) platform.Result {
	if !a.Configured() {
		return platform.Skipped(platform.ReasonMissingSecrets)
	}

	auth := oauth1.AuthorizationHeader(http.MethodPost, a.apiURL, a.creds, a.nonce(), a.now().Unix())
	payload := struct {
		Text string `json:"text"`
	}{Text: text}

	status, body, err := platform.PostJSON(ctx, a.client, a.apiURL, map[string]string{
		"Authorization": auth,
	}, payload)
	if err != nil {
		a.log.Error("tweet request failed", logx.Err(err))
		return platform.Skipped(platform.ReasonTransport)
	}
	if status/100 != 2 {
		a.log.Error("tweet rejected", logx.Int("status", status), logx.String("body", body))
		return platform.Skipped(platform.ReasonTransport)
	}
	return platform.Delivered()
}
