//go:build wireinject

package main

import (
	"context"

	"attack2mongo/internal/app"
	"attack2mongo/ioc"
	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*app.Service, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitSTIXClient,
		ioc.InitMongoClient,
		ioc.InitReplacer,
		ioc.InitMetrics,
		ioc.InitAppService,
	))
}
