package ioc

import (
	"attack2mongo/internal/app"
	"attack2mongo/internal/loader"
	"attack2mongo/internal/metrics"
	"attack2mongo/internal/stix"
	"go.uber.org/zap"
)

// InitAppService 构建 ETL 服务。
func InitAppService(cfg app.Config, source stix.Client, replacer *loader.Replacer, recorder *metrics.Recorder, logger *zap.Logger) (*app.Service, error) {
	return app.NewService(cfg, source, replacer, recorder, logger)
}
