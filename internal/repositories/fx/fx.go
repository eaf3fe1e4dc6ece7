package fx

import (
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/saved"
	"github.com/orgball2608/reddit-reader-bot/internal/repositories/shared"
	"go.uber.org/fx"
)

var Module = fx.Options(
	saved.Module,
	shared.Module,
)
