package saved

import (
	"github.com/orgball2608/reddit-reader-bot/internal/reddit"
	"go.uber.org/fx"
)

var Module = fx.Module("saved_repository",
	fx.Provide(
		fx.Annotate(
			NewFileRepository,
			fx.As(new(Repository), new(reddit.SavedChecker)),
		),
	),
)
