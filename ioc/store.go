package ioc

import (
	"context"

	"attack2mongo/internal/app"
	"attack2mongo/internal/domain"
	"attack2mongo/internal/loader"
	"attack2mongo/internal/store"
	"go.uber.org/zap"
)

// InitMongoClient 建立 MongoDB 连接，cleanup 时断开。
func InitMongoClient(ctx context.Context, cfg app.Config, logger *zap.Logger) (*store.Client, func(), error) {
	client, err := store.NewClient(ctx, store.Config{
		URI:                  cfg.Mongo.URI,
		Database:             cfg.Mongo.Database,
		ConnectionTimeoutSec: cfg.Mongo.ConnectTimeoutSecond,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("MongoDB 已连接", zap.String("phase", "config"), zap.String("database", cfg.Mongo.Database))
	cleanup := func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn("断开 MongoDB 失败", zap.Error(err))
		}
	}
	return client, cleanup, nil
}

// InitReplacer 构建集合替换器。
func InitReplacer(cfg app.Config, client *store.Client, logger *zap.Logger) *loader.Replacer {
	opts := loader.Options{
		Mode:      loader.Mode(cfg.Load.Mode),
		BatchSize: cfg.Load.BatchSize,
	}
	if opts.Mode == loader.ModeSwap {
		opts.Staging = client.Collection(domain.StagingName(cfg.Mongo.Collection))
	}
	return loader.NewReplacer(client.Collection(cfg.Mongo.Collection), opts, logger)
}
