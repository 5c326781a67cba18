package reconcile

import (
	"context"

	"github.com/sodacandy/candybot/internal/mirror/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("reconcile",
	fx.Provide(NewRegistry),
	fx.Provide(NewEngine),
	fx.Provide(NewDiffer),
	fx.Provide(NewScheduler),
	fx.Provide(
		fx.Annotate(func() any { return &domain.Member{} }, fx.ResultTags(`group:"cascade_models"`)),
		fx.Annotate(func() any { return &domain.Channel{} }, fx.ResultTags(`group:"cascade_models"`)),
		fx.Annotate(func() any { return &domain.Role{} }, fx.ResultTags(`group:"cascade_models"`)),
		fx.Annotate(func() any { return &domain.Message{} }, fx.ResultTags(`group:"cascade_models"`)),
	),
)

// Run starts the scheduler loop under the fx lifecycle.
func Run(lc fx.Lifecycle, s *Scheduler) {
	loopCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(loopCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
