package review

import (
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/review/domain"
	"github.com/sodacandy/candybot/internal/review/repository"
)

var Module = fx.Module("review",
	fx.Provide(repository.ProvideReviewRepository),
	fx.Provide(
		fx.Annotate(
			func() any { return &domain.ReviewAssignment{} },
			fx.ResultTags(`group:"cascade_models"`),
		),
	),
)
