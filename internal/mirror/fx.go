package mirror

import (
	"github.com/sodacandy/candybot/internal/mirror/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("mirror",
	fx.Provide(repository.ProvideCommunity),
	fx.Provide(repository.ProvideMember),
	fx.Provide(repository.ProvideChannel),
	fx.Provide(repository.ProvideRole),
	fx.Provide(repository.ProvideMessage),
)
