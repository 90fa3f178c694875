package telegram

import (
	"context"
	"testing"
	"time"

	"announcer/internal/config"
	"announcer/internal/platform"
	"announcer/pkg/logx"
)

func TestUnconfiguredSkips(t *testing.T) {
	cases := []config.TelegramConfig{
		{},
		{Token: "123:abc"},        // channel missing
		{ChannelID: "@somewhere"}, // token missing
	}
	for _, cfg := range cases {
		a := New(cfg, time.Second, logx.Nop())
		if a.Configured() {
			t.Fatalf("adapter with %+v must not be configured", cfg)
		}
		res := a.Send(context.Background(), "hello")
		if res.OK || res.Reason != platform.ReasonMissingSecrets {
			t.Fatalf("unexpected result: %+v", res)
		}
	}
}

func TestExplicitlyDisabled(t *testing.T) {
	off := false
	a := New(config.TelegramConfig{Enabled: &off, Token: "123:abc", ChannelID: "@ch"}, time.Second, logx.Nop())
	if a.Configured() {
		t.Fatalf("disabled adapter must not be configured")
	}
}

func TestConfiguredConstructsOffline(t *testing.T) {
	// Offline settings mean construction must succeed without any network.
	a := New(config.TelegramConfig{Token: "123:abc", ChannelID: "-1001234"}, time.Second, logx.Nop())
	if !a.Configured() {
		t.Fatalf("expected configured adapter")
	}
	if a.initErr != nil {
		t.Fatalf("offline construction failed: %v", a.initErr)
	}
	if a.Name() != "telegram" || a.Limit() != 4096 {
		t.Fatalf("unexpected identity: %s/%d", a.Name(), a.Limit())
	}
}

func TestChannelRecipient(t *testing.T) {
	if channelRecipient("@jobs").Recipient() != "@jobs" {
		t.Fatalf("username channel mangled")
	}
	if channelRecipient("-100123").Recipient() != "-100123" {
		t.Fatalf("numeric channel mangled")
	}
}
