// Package orchestrator drives one pipeline run: it walks the item batch,
// consults the ledger, hands formatted messages to each platform adapter, and
// commits ledger state for items where every configured platform succeeded.
//
// Everything is strictly sequential. One item, one platform, one HTTP call at
// a time, with a throttle pause between successive sends on the same platform.
// The expected batch is single-digit items; rate-limit compliance and a
// deterministic ledger commit order matter more than throughput here.
package orchestrator

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"announcer/internal/feed"
	"announcer/internal/history"
	"announcer/internal/ledger"
	"announcer/internal/message"
	"announcer/internal/platform"
	"announcer/pkg/logx"
)

type Orchestrator struct {
	Ledger    *ledger.Ledger
	Formatter message.Formatter
	Adapters  []platform.Adapter
	History   history.Store // optional; nil disables recording
	Throttle  time.Duration
	// DryRun logs and records what would be sent without dialing any platform
	// and without committing the ledger.
	DryRun bool
	Log    logx.Logger

	now func() time.Time
}

// Summary aggregates one run's outcomes for the final log line.
type Summary struct {
	Items          int
	Delivered      int
	AlreadyPosted  int
	MissingSecrets int
	Failed         int
	Committed      int
}

// Run executes the Load -> Dispatch -> Aggregate/Commit -> Throttle state
// machine over the batch. It never returns an error: delivery failures are
// operational conditions observed through logs, and the process exits clean
// regardless.
func (o *Orchestrator) Run(ctx context.Context, items []feed.Item) Summary {
	log := o.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	if o.now == nil {
		o.now = time.Now
	}

	sum := Summary{Items: len(items)}
	if len(items) == 0 {
		log.Info("no new items, nothing to do")
		return sum
	}

	start := o.now()
	log.Info("run started", logx.Int("items", len(items)), logx.Int("platforms", len(o.Adapters)), logx.Bool("dry_run", o.DryRun))

	// One limiter per platform so the pause applies between successive sends
	// on the same platform, not across platforms.
	limiters := make(map[string]*rate.Limiter, len(o.Adapters))
	for _, a := range o.Adapters {
		limiters[a.Name()] = rate.NewLimiter(rate.Every(o.throttle()), 1)
	}

	for _, item := range items {
		results := make(map[string]platform.Result, len(o.Adapters))

		for _, a := range o.Adapters {
			res := o.dispatch(ctx, item, a, limiters[a.Name()], log)
			results[a.Name()] = res

			switch {
			case res.OK:
				sum.Delivered++
			case res.Reason == platform.ReasonAlreadyPosted:
				sum.AlreadyPosted++
			case res.Reason == platform.ReasonMissingSecrets:
				sum.MissingSecrets++
			default:
				sum.Failed++
			}

			o.record(ctx, item, a.Name(), res, log)
		}

		if o.commit(item, results, log) {
			sum.Committed++
		}
	}

	fields := []logx.Field{
		logx.Int("items", sum.Items),
		logx.Int("delivered", sum.Delivered),
		logx.Int("already_posted", sum.AlreadyPosted),
		logx.Int("missing_secrets", sum.MissingSecrets),
		logx.Int("failed", sum.Failed),
		logx.Int("committed", sum.Committed),
		logx.Duration("dur", o.now().Sub(start)),
	}
	if sum.Failed > 0 {
		log.Warn("run finished with failures", fields...)
	} else {
		log.Info("run finished", fields...)
	}
	return sum
}

func (o *Orchestrator) throttle() time.Duration {
	if o.Throttle > 0 {
		return o.Throttle
	}
	return time.Second
}

// dispatch resolves one (item, platform) pair to a result, logging the
// greppable outcome line.
func (o *Orchestrator) dispatch(ctx context.Context, item feed.Item, a platform.Adapter, lim *rate.Limiter, log logx.Logger) platform.Result {
	plog := log.With(logx.String("platform", a.Name()), logx.String("url", item.URL))

	if o.Ledger != nil && o.Ledger.IsPosted(item.URL, a.Name()) {
		plog.Info("Skipping (already posted)")
		return platform.Skipped(platform.ReasonAlreadyPosted)
	}
	if !a.Configured() {
		plog.Info("Skipping: missing secrets")
		return platform.Skipped(platform.ReasonMissingSecrets)
	}

	text := o.Formatter.FormatBounded(item.Title, item.URL, a.Limit())

	if o.DryRun {
		plog.Info("Success", logx.Bool("dry_run", true), logx.Int("len", len([]rune(text))))
		return platform.Delivered()
	}

	// Blocking pause, not a scheduled retry. The first send on a platform
	// passes immediately; later ones wait out the throttle.
	if err := lim.Wait(ctx); err != nil {
		plog.Warn("Failed", logx.Err(err))
		return platform.Skipped(platform.ReasonTransport)
	}

	res := a.Send(ctx, text)
	if res.OK {
		plog.Info("Success")
	} else {
		plog.Warn("Failed", logx.String("reason", string(res.Reason)))
	}
	return res
}

// commit applies the all-or-nothing rule: ledger state for an item advances
// only when every configured platform succeeded (or had already succeeded) in
// this run. A partial success marks nothing, so a future run retries every
// platform rather than guessing which "success" was real.
func (o *Orchestrator) commit(item feed.Item, results map[string]platform.Result, log logx.Logger) bool {
	if o.Ledger == nil || o.DryRun {
		return false
	}

	var configured []string
	for _, a := range o.Adapters {
		r, seen := results[a.Name()]
		// Already-posted platforms count as satisfied even when their secrets
		// are currently absent.
		if seen && r.Reason == platform.ReasonAlreadyPosted {
			configured = append(configured, a.Name())
			continue
		}
		if !a.Configured() {
			continue
		}
		if !seen || !r.OK {
			return false
		}
		configured = append(configured, a.Name())
	}
	if len(configured) == 0 {
		return false
	}

	ok := true
	for _, name := range configured {
		if !o.Ledger.MarkPosted(item.URL, name) {
			ok = false
		}
	}
	if ok {
		log.Info("ledger committed", logx.String("url", item.URL), logx.Any("platforms", configured))
	} else {
		log.Warn("ledger commit incomplete", logx.String("url", item.URL))
	}
	return ok
}

func (o *Orchestrator) record(ctx context.Context, item feed.Item, platformName string, res platform.Result, log logx.Logger) {
	if o.History == nil {
		return
	}
	rec := history.DeliveryRecord{
		At:       o.now(),
		URL:      item.URL,
		Title:    item.Title,
		Platform: platformName,
		OK:       res.OK,
		Reason:   string(res.Reason),
		DryRun:   o.DryRun,
	}
	if err := o.History.AppendDelivery(ctx, rec); err != nil {
		// History is best-effort; never let it affect delivery.
		log.Debug("history append failed", logx.Err(err))
	}
}
