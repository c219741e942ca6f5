package ioc

import "attack2mongo/internal/metrics"

// InitMetrics 构建运行指标记录器。
func InitMetrics() *metrics.Recorder {
	return metrics.New()
}
