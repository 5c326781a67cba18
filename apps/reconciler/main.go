package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sodacandy/candybot/internal/candy"
	"github.com/sodacandy/candybot/internal/clock"
	"github.com/sodacandy/candybot/internal/config"
	"github.com/sodacandy/candybot/internal/migration"
	"github.com/sodacandy/candybot/internal/mirror"
	"github.com/sodacandy/candybot/internal/observability"
	"github.com/sodacandy/candybot/internal/platform"
	"github.com/sodacandy/candybot/internal/reconcile"
	"github.com/sodacandy/candybot/internal/relay"
	"github.com/sodacandy/candybot/internal/reminder"
	"github.com/sodacandy/candybot/internal/review"
	"github.com/sodacandy/candybot/internal/sticky"
	"github.com/sodacandy/candybot/pkg/db"
)

// Headless reconciler: runs the periodic lifecycle sweep without the
// event ingestion or HTTP surface. Deployed alongside the main process
// when reconciliation load is worth isolating.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		mirror.Module,
		platform.Module,
		reconcile.Module,

		// Feature modules registered for their cascade models only.
		candy.Module,
		reminder.Module,
		sticky.Module,
		review.Module,
		relay.Module,

		// No server module!
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
