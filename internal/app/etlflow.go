package app

import (
	"context"
	"fmt"

	"attack2mongo/internal/domain"
	"attack2mongo/internal/loader"
	"attack2mongo/internal/stix"
	"attack2mongo/pkg/util"
	"go.uber.org/zap"
)

// Report 汇总一次运行各阶段的数量。
type Report struct {
	Fetched  int
	Matched  int
	Inserted int
	Skipped  bool
	// Digest 是本次写入的转换结果的摘要，不回读集合。
	Digest string
}

// ETLFlow 依次执行 拉取 -> 转换 -> 替换集合，任一步失败立即返回。
type ETLFlow struct {
	Source     stix.Client
	EntityType string
	Loader     *loader.Replacer
	Logger     *zap.Logger
}

// Run 执行一次完整的 ETL。
func (f *ETLFlow) Run(ctx context.Context) (Report, error) {
	var report Report
	if f == nil || f.Source == nil || f.Loader == nil {
		return report, fmt.Errorf("etl flow 依赖未注入完整")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	entityType := f.EntityType
	if entityType == "" {
		entityType = domain.TypeAttackPattern
	}

	f.Logger.Info("开始拉取 STIX 数据", zap.String("phase", "extract"))
	bundle, err := f.Source.FetchBundle(ctx)
	if err != nil {
		return report, fmt.Errorf("拉取 STIX 数据失败: %w", err)
	}
	report.Fetched = len(bundle.Objects)
	f.Logger.Info("STIX 数据下载完成", zap.String("phase", "extract"), zap.Int("objects", report.Fetched))

	selected, err := stix.Select(bundle, entityType)
	if err != nil {
		return report, err
	}
	report.Matched = len(selected)
	if len(selected) > 0 {
		f.Logger.Info("转换前样例", zap.String("phase", "extract"), zap.String("raw", stix.RawSample(selected[0], stix.SampleLimit)))
	}

	f.Logger.Info("开始转换", zap.String("phase", "transform"), zap.String("entity_type", entityType), zap.Int("matched", report.Matched))
	records, err := stix.TransformAll(selected)
	if err != nil {
		return report, err
	}
	if len(records) > 0 {
		f.Logger.Info("转换后样例", zap.String("phase", "transform"), zap.Any("record", records[0]))
	}

	f.Logger.Info("开始加载", zap.String("phase", "load"), zap.String("collection", f.Loader.Target()))
	res, err := f.Loader.Replace(ctx, records)
	report.Inserted = res.Inserted
	if err != nil {
		return report, fmt.Errorf("加载失败: %w", err)
	}
	report.Skipped = res.Skipped
	if res.Skipped {
		return report, nil
	}

	digest, err := util.HashJSON(records)
	if err != nil {
		f.Logger.Warn("计算转换结果摘要失败", zap.Error(err))
	}
	report.Digest = digest
	f.Logger.Info("已写入转换后的记录",
		zap.String("phase", "load"),
		zap.Int("inserted", res.Inserted),
		zap.Int64("stored", res.Stored),
		zap.String("records_digest", digest))
	return report, nil
}
