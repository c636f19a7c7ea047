package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopkit/tradepost/internal/migration"
	"github.com/shopkit/tradepost/internal/observability"
	"github.com/shopkit/tradepost/internal/server"
	"github.com/shopkit/tradepost/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
		migration.Module,
	)

	app.Run()
}

// RegisterSnowflake builds the process-wide ID generator node.
func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
