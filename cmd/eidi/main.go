package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/fahimshariar28/eidi/internal/config"
	"github.com/fahimshariar28/eidi/internal/logger"
	"github.com/fahimshariar28/eidi/internal/migration"
	"github.com/fahimshariar28/eidi/internal/server"
	"github.com/fahimshariar28/eidi/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
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
