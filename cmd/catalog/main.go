package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/techdrop/catalog/internal/clock"
	"github.com/techdrop/catalog/internal/config"
	"github.com/techdrop/catalog/internal/migration"
	"github.com/techdrop/catalog/internal/observability"
	"github.com/techdrop/catalog/internal/server"
	"github.com/techdrop/catalog/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
