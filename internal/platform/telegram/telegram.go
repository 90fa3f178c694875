// Package telegram delivers announcements to a Telegram channel through the
// Bot API.
package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"announcer/internal/config"
	"announcer/internal/platform"
	"announcer/pkg/logx"
)

// Telegram messages cap at 4096 characters; our announcements never get close,
// but the bound is enforced like any other platform limit.
const messageLimit = 4096

type Adapter struct {
	token   string
	channel string
	enabled bool
	log     logx.Logger

	bot     *tele.Bot
	initErr error
}

// channelRecipient lets us address both numeric chat IDs ("-100...") and
// public channel names ("@channel") without resolving them first.
type channelRecipient string

func (c channelRecipient) Recipient() string { return string(c) }

func New(cfg config.TelegramConfig, timeout time.Duration, log logx.Logger) *Adapter {
	a := &Adapter{
		token:   strings.TrimSpace(cfg.Token),
		channel: strings.TrimSpace(cfg.ChannelID),
		enabled: config.Enabled(cfg.Enabled),
		log:     log.With(logx.String("platform", "telegram")),
	}
	if !a.Configured() {
		return a
	}
	// Offline keeps construction network-free (no getMe); sendMessage does not
	// need the bot identity.
	bot, err := tele.NewBot(tele.Settings{
		Token:   a.token,
		Offline: true,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		a.initErr = err
	} else {
		a.bot = bot
	}
	return a
}

func (a *Adapter) Name() string { return "telegram" }

func (a *Adapter) Limit() int { return messageLimit }

func (a *Adapter) Configured() bool {
	return a.enabled && a.token != "" && a.channel != ""
}

func (a *Adapter) Send(ctx context.Context, text string) platform.Result {
	if !a.Configured() {
		return platform.Skipped(platform.ReasonMissingSecrets)
	}
	if a.initErr != nil {
		a.log.Error("bot init failed", logx.Err(a.initErr))
		return platform.Skipped(platform.ReasonTransport)
	}

	_, err := a.bot.Send(channelRecipient(a.channel), text)
	if err != nil {
		a.log.Error("sendMessage failed", logx.Err(err))
		return platform.Skipped(platform.ReasonTransport)
	}
	return platform.Delivered()
}
