package ioc

import (
	"time"

	"attack2mongo/internal/app"
	"attack2mongo/internal/stix"
)

// InitSTIXClient 构建 STIX 数据源客户端。
func InitSTIXClient(cfg app.Config) (stix.Client, error) {
	return stix.NewHTTPClient(stix.HTTPConfig{
		URL:     cfg.Source.URL,
		Timeout: time.Duration(cfg.Source.TimeoutSecond) * time.Second,
	})
}
