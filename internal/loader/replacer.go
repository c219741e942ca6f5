package loader

import (
	"context"
	"errors"
	"fmt"

	"attack2mongo/internal/domain"
	"attack2mongo/pkg/util"
	"go.uber.org/zap"
)

// ErrPersist 表示文档库拒绝了删除、写入或重命名操作。
var ErrPersist = errors.New("写入文档库失败")

// Mode 决定集合内容的替换方式。
type Mode string

const (
	// ModeReplace 先清空目标集合再写入，中间存在空集合窗口。
	ModeReplace Mode = "replace"
	// ModeSwap 先写入临时集合，再重命名覆盖目标集合。
	ModeSwap Mode = "swap"
)

// Collection 是 Replacer 依赖的集合操作，*store.Collection 实现了它。
type Collection interface {
	Name() string
	DeleteAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, docs []any) (int, error)
	Count(ctx context.Context) (int64, error)
	RenameTo(ctx context.Context, target string) error
}

// Options 配置 Replacer。
type Options struct {
	Mode Mode
	// BatchSize 为 0 时一次性写入全部记录。
	BatchSize int
	// Staging 仅在 ModeSwap 下使用。
	Staging Collection
}

// Result 汇总一次加载的结果。
type Result struct {
	Skipped  bool
	Deleted  int64
	Inserted int
	// Stored 是加载后目标集合的文档数，统计失败时为 -1。
	Stored int64
}

// Replacer 负责用新记录整体替换目标集合。
type Replacer struct {
	target    Collection
	staging   Collection
	mode      Mode
	batchSize int
	logger    *zap.Logger
}

// NewReplacer 创建 Replacer。
func NewReplacer(target Collection, opts Options, logger *zap.Logger) *Replacer {
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeReplace
	}
	return &Replacer{
		target:    target,
		staging:   opts.Staging,
		mode:      mode,
		batchSize: opts.BatchSize,
		logger:    logger,
	}
}

// Target 返回目标集合名。
func (r *Replacer) Target() string {
	return r.target.Name()
}

// Replace 替换目标集合内容。records 为空时不做任何操作，目标集合保持原样。
func (r *Replacer) Replace(ctx context.Context, records []domain.AttackPattern) (Result, error) {
	if r == nil || r.target == nil {
		return Result{}, fmt.Errorf("loader 未初始化")
	}
	if len(records) == 0 {
		r.logger.Info("没有可写入的数据，跳过加载", zap.String("collection", r.target.Name()))
		return Result{Skipped: true, Stored: -1}, nil
	}

	docs := toDocuments(records)
	var (
		res Result
		err error
	)
	switch r.mode {
	case ModeReplace:
		res, err = r.replace(ctx, docs)
	case ModeSwap:
		res, err = r.swap(ctx, docs)
	default:
		return Result{}, fmt.Errorf("未知的加载模式 %q", r.mode)
	}
	if err != nil {
		return res, err
	}

	res.Stored = r.verify(ctx, res.Inserted)
	r.logger.Info("加载完成",
		zap.String("collection", r.target.Name()),
		zap.String("mode", string(r.mode)),
		zap.Int64("deleted", res.Deleted),
		zap.Int("inserted", res.Inserted))
	return res, nil
}

func (r *Replacer) replace(ctx context.Context, docs []any) (Result, error) {
	var res Result
	deleted, err := r.target.DeleteAll(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	res.Deleted = deleted

	res.Inserted, err = r.insert(ctx, r.target, docs)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (r *Replacer) swap(ctx context.Context, docs []any) (Result, error) {
	var res Result
	if r.staging == nil {
		return res, fmt.Errorf("swap 模式需要临时集合")
	}
	if _, err := r.staging.DeleteAll(ctx); err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	inserted, err := r.insert(ctx, r.staging, docs)
	if err != nil {
		return res, err
	}
	if err := r.staging.RenameTo(ctx, r.target.Name()); err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	res.Inserted = inserted
	return res, nil
}

func (r *Replacer) insert(ctx context.Context, coll Collection, docs []any) (int, error) {
	total := 0
	for _, chunk := range util.Batch(docs, r.batchSize) {
		n, err := coll.InsertMany(ctx, chunk)
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: 已写入 %d 条: %w", ErrPersist, total, err)
		}
	}
	return total, nil
}

func (r *Replacer) verify(ctx context.Context, inserted int) int64 {
	stored, err := r.target.Count(ctx)
	if err != nil {
		r.logger.Warn("统计目标集合失败", zap.Error(err))
		return -1
	}
	if stored != int64(inserted) {
		r.logger.Warn("目标集合文档数与写入数不一致",
			zap.Int64("stored", stored),
			zap.Int("inserted", inserted))
	}
	return stored
}

func toDocuments(records []domain.AttackPattern) []any {
	docs := make([]any, 0, len(records))
	for _, record := range records {
		docs = append(docs, record)
	}
	return docs
}
