package shared

import (
	"go.uber.org/fx"
)

var Module = fx.Module("shared_repository",
	fx.Provide(
		fx.Annotate(
			NewPgx,
			fx.As(new(Repository)),
		),
	),
)
