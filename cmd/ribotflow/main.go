package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/migration"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/observability"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/seed"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/server"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		seed.Module,
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
