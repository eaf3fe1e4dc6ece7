package commandimpl

import (
	"github.com/orgball2608/reddit-reader-bot/internal/command"
	"github.com/orgball2608/reddit-reader-bot/internal/feed"
	"github.com/orgball2608/reddit-reader-bot/internal/ratelimit"
	"github.com/orgball2608/reddit-reader-bot/internal/share"
	"github.com/orgball2608/reddit-reader-bot/internal/telegram"
	"github.com/orgball2608/reddit-reader-bot/pkg/config"
	"github.com/orgball2608/reddit-reader-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram telegram.Client
	Sessions *feed.Sessions
	Share    *share.Service
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Sessions *feed.Sessions
	Share    *share.Service
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Sessions: opts.Sessions,
		Share:    opts.Share,
		Limiter:  opts.Limiter,
		Logger:   opts.Logger.WithComponent("Command"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)
