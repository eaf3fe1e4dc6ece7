package app

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/reddit-reader-bot/internal/command"
	"github.com/orgball2608/reddit-reader-bot/internal/command/commandimpl"
	"github.com/orgball2608/reddit-reader-bot/internal/digest"
	"github.com/orgball2608/reddit-reader-bot/internal/digest/digestimpl"
	"github.com/orgball2608/reddit-reader-bot/internal/feed"
	"github.com/orgball2608/reddit-reader-bot/internal/httpserver"
	"github.com/orgball2608/reddit-reader-bot/internal/migrations"
	"github.com/orgball2608/reddit-reader-bot/internal/ratelimit"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"github.com/orgball2608/reddit-reader-bot/internal/reddit/redditimpl"
	repositories "github.com/orgball2608/reddit-reader-bot/internal/repositories/fx"
	"github.com/orgball2608/reddit-reader-bot/internal/share"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"github.com/orgball2608/reddit-reader-bot/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		fx.Annotate(
			clockwork.NewRealClock,
			fx.As(new(clockwork.Clock)),
		),
		fx.Annotate(
			newLimiter,
			fx.As(new(ratelimit.Limiter)),
		),
	),
	fx.Provide(
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
		),
		fx.Annotate(
			redditimpl.New,
			fx.As(new(reddit.Client)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		fx.Annotate(
			digestimpl.New,
			fx.As(new(digest.Client)),
		),
		feed.NewSessions,
		share.New,
		httpserver.New,
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func newLimiter(cfg *config.Config) *ratelimit.InMemoryLimiter {
	return ratelimit.NewInMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst)
}

func migrate(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migrations.Up(ctx, cfg.GetDSN()); err != nil {
		log.Error("Migrations failed", "error", err)
		return err
	}
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cmdClient command.Client, digestClient digest.Client,
	server *httpserver.Server) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := server.Start(); err != nil {
				return err
			}

			if err := digestClient.Schedule(ctx); err != nil {
				log.Error("Digest schedule error", "error", err)
				return err
			}

			go func() {
				for {
					err := cmdClient.HandleCommand(ctx)
					if ctx.Err() != nil {
						return
					}
					log.Error("Command handler stopped, restarting", "error", err)
					select {
					case <-ctx.Done():
						return
					case <-time.After(5 * time.Second):
					}
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return server.Stop(stopCtx)
		},
	})
}
