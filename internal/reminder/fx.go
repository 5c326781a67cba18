package reminder

import (
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/reminder/domain"
	"github.com/sodacandy/candybot/internal/reminder/repository"
)

var Module = fx.Module("reminder",
	fx.Provide(repository.ProvideReminderRepository),
	fx.Provide(
		fx.Annotate(
			func() any { return &domain.Reminder{} },
			fx.ResultTags(`group:"cascade_models"`),
		),
	),
)
