package sticky

import (
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/sticky/domain"
	"github.com/sodacandy/candybot/internal/sticky/repository"
)

var Module = fx.Module("sticky",
	fx.Provide(repository.ProvideStickyRepository),
	fx.Provide(
		fx.Annotate(
			func() any { return &domain.StickyMessage{} },
			fx.ResultTags(`group:"cascade_models"`),
		),
	),
)
