package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"go.uber.org/fx"
)

var FxOption = fx.Annotate(
	newWithLifecycle,
	fx.As(new(Logger)),
)

// newWithLifecycle flushes buffered Sentry events when the app stops.
func newWithLifecycle(lc fx.Lifecycle, cfg *config.Config) *Impl {
	l := New(Opts{
		Env:       cfg.App.Env,
		SentryDSN: cfg.App.SentryUrl,
	})

	if cfg.App.SentryUrl != "" {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				sentry.Flush(2 * time.Second)
				return nil
			},
		})
	}
	return l
}
