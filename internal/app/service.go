package app

import (
	"context"
	"fmt"
	"time"

	"attack2mongo/internal/loader"
	"attack2mongo/internal/metrics"
	"attack2mongo/internal/stix"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service 负责装配 ETLFlow 并提供统一入口。
type Service struct {
	cfg     Config
	flow    *ETLFlow
	metrics *metrics.Recorder
	logger  *zap.Logger
}

// NewService 根据配置构建 Service。
func NewService(cfg Config, source stix.Client, replacer *loader.Replacer, recorder *metrics.Recorder, logger *zap.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("必须提供 stix client")
	}
	if replacer == nil {
		return nil, fmt.Errorf("必须提供 loader")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg: cfg,
		flow: &ETLFlow{
			Source:     source,
			EntityType: cfg.Source.EntityType,
			Loader:     replacer,
		},
		metrics: recorder,
		logger:  logger,
	}, nil
}

// Run 执行一次 ETL，并在结束后记录、推送指标。
func (s *Service) Run(ctx context.Context) error {
	logger := s.logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("配置已加载",
		zap.String("phase", "config"),
		zap.String("database", s.cfg.Mongo.Database),
		zap.String("collection", s.cfg.Mongo.Collection),
		zap.String("source", s.cfg.Source.URL),
		zap.String("mode", s.cfg.Load.Mode))

	s.flow.Logger = logger
	start := time.Now()
	report, err := s.flow.Run(ctx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveRun(report.Fetched, report.Matched, report.Inserted, elapsed, err)
		s.pushMetrics(ctx, logger)
	}
	if err != nil {
		return err
	}
	logger.Info("ETL 完成", zap.Duration("duration", elapsed), zap.Bool("skipped", report.Skipped))
	return nil
}

func (s *Service) pushMetrics(ctx context.Context, logger *zap.Logger) {
	if s.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := s.metrics.Push(ctx, s.cfg.Metrics.PushgatewayURL, s.cfg.Metrics.Job); err != nil {
		logger.Warn("推送指标失败", zap.Error(err))
	}
}
