package candy

import (
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/candy/domain"
	"github.com/sodacandy/candybot/internal/candy/repository"
	"github.com/sodacandy/candybot/internal/candy/service"
)

var Module = fx.Module("candy",
	fx.Provide(
		repository.ProvideCandyRepository,
		service.NewService,
	),
	fx.Provide(
		fx.Annotate(
			func() any { return &domain.CandyLog{} },
			fx.ResultTags(`group:"cascade_models"`),
		),
	),
)
