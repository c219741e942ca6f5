package ioc

import (
	"attack2mongo/internal/app"
	"attack2mongo/pkg/logging"
	"go.uber.org/zap"
)

// InitLogger 构建全局 logger，退出时 flush。
func InitLogger(cfg app.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}
