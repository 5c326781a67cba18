package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/cache"
	"github.com/sodacandy/candybot/internal/candy"
	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/events"
	"github.com/sodacandy/candybot/internal/migration"
	"github.com/sodacandy/candybot/internal/mirror"
	"github.com/sodacandy/candybot/internal/observability"
	"github.com/sodacandy/candybot/internal/platform"
	"github.com/sodacandy/candybot/internal/reconcile"
	"github.com/sodacandy/candybot/internal/relay"
	"github.com/sodacandy/candybot/internal/reminder"
	"github.com/sodacandy/candybot/internal/review"
	"github.com/sodacandy/candybot/internal/server"
	"github.com/sodacandy/candybot/internal/sticky"
	"github.com/sodacandy/candybot/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		migration.Module,

		mirror.Module,
		events.Module,
		platform.Module,
		reconcile.Module,

		candy.Module,
		reminder.Module,
		sticky.Module,
		review.Module,
		relay.Module,

		server.Module,
		fx.Invoke(reconcile.Run),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
