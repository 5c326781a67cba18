package relay

import (
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/relay/domain"
	"github.com/sodacandy/candybot/internal/relay/repository"
)

var Module = fx.Module("relay",
	fx.Provide(repository.ProvideRelayRepository),
	fx.Provide(
		fx.Annotate(
			func() any { return &domain.RelayRoute{} },
			fx.ResultTags(`group:"cascade_models"`),
		),
	),
)
