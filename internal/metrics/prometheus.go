package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder 记录单次 ETL 运行的指标，批处理任务结束后推送到 Pushgateway。
type Recorder struct {
	registry *prometheus.Registry

	RunDuration        prometheus.Histogram
	RunErrors          prometheus.Counter
	ObjectsFetched     prometheus.Gauge
	RecordsTransformed prometheus.Gauge
	RecordsInserted    prometheus.Gauge
	LastSuccess        prometheus.Gauge
}

// New 创建 Recorder 并注册到独立的 registry。
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stix_etl_run_duration_seconds",
			Help:    "单次 ETL 运行耗时",
			Buckets: prometheus.DefBuckets,
		}),
		RunErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stix_etl_run_errors_total",
			Help: "ETL 运行失败次数",
		}),
		ObjectsFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stix_etl_objects_fetched",
			Help: "下载的 STIX 对象数",
		}),
		RecordsTransformed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stix_etl_records_transformed",
			Help: "转换后的记录数",
		}),
		RecordsInserted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stix_etl_records_inserted",
			Help: "写入文档库的记录数",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stix_etl_last_success_timestamp_seconds",
			Help: "最近一次成功运行的 Unix 时间",
		}),
	}
	r.registry.MustRegister(r.RunDuration, r.RunErrors, r.ObjectsFetched,
		r.RecordsTransformed, r.RecordsInserted, r.LastSuccess)
	return r
}

// Registry 返回内部 registry。
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun 记录一次运行结果。
func (r *Recorder) ObserveRun(fetched, transformed, inserted int, elapsed time.Duration, runErr error) {
	if r == nil {
		return
	}
	r.RunDuration.Observe(elapsed.Seconds())
	r.ObjectsFetched.Set(float64(fetched))
	r.RecordsTransformed.Set(float64(transformed))
	r.RecordsInserted.Set(float64(inserted))
	if runErr != nil {
		r.RunErrors.Inc()
		return
	}
	r.LastSuccess.SetToCurrentTime()
}

// Push 将全部指标推送到 Pushgateway，替换同一 job 下的旧值。
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("推送指标失败: %w", err)
	}
	return nil
}
