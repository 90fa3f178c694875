// Package linkedin delivers announcements as organization shares through the
// LinkedIn UGC Posts API.
package linkedin

import (
	"context"
	"net/http"
	"time"

	"announcer/internal/config"
	"announcer/internal/platform"
	"announcer/pkg/logx"
)

const (
	defaultAPIURL = "https://api.linkedin.com/v2/ugcPosts"

	messageLimit = 3000
)

type Adapter struct {
	accessToken string
	orgID       string
	enabled     bool
	log         logx.Logger

	client *http.Client
	apiURL string
}

func New(cfg config.LinkedInConfig, timeout time.Duration, log logx.Logger) *Adapter {
	return &Adapter{
		accessToken: cfg.AccessToken,
		orgID:       cfg.OrgID,
		enabled:     config.Enabled(cfg.Enabled),
		log:         log.With(logx.String("platform", "linkedin")),
		client:      &http.Client{Timeout: timeout},
		apiURL:      defaultAPIURL,
	}
}

func (a *Adapter) Name() string { return "linkedin" }

func (a *Adapter) Limit() int { return messageLimit }

func (a *Adapter) Configured() bool {
	return a.enabled && a.accessToken != "" && a.orgID != ""
}

// ugcPost mirrors the UGC Posts request shape for a text-only organization
// share.
type ugcPost struct {
	Author          string         `json:"author"`
	LifecycleState  string         `json:"lifecycleState"`
	SpecificContent map[string]any `json:"specificContent"`
	Visibility      map[string]any `json:"visibility"`
}

func (a *Adapter) Send(ctx context.Context, text string) platform.Result {
	if !a.Configured() {
		return platform.Skipped(platform.ReasonMissingSecrets)
	}

	payload := ugcPost{
		Author:         "urn:li:organization:" + a.orgID,
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	status, body, err := platform.PostJSON(ctx, a.client, a.apiURL, map[string]string{
		"Authorization":             "Bearer " + a.accessToken,
		"X-Restli-Protocol-Version": "2.0.0",
	}, payload)
	if err != nil {
		a.log.Error("ugcPosts request failed", logx.Err(err))
		return platform.Skipped(platform.ReasonTransport)
	}
	if status/100 != 2 {
		a.log.Error("ugcPosts rejected", logx.Int("status", status), logx.String("body", body))
		return platform.Skipped(platform.ReasonTransport)
	}
	return platform.Delivered()
}
