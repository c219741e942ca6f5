package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config 控制 MongoDB 连接参数。
type Config struct {
	URI                  string
	Database             string
	ConnectionTimeoutSec int
}

// Client 封装 mongo.Client，只暴露加载流程需要的操作。
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewClient 建立连接并 ping 主节点。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri 不能为空")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database 不能为空")
	}
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectionTimeoutSec > 0 {
		timeout := time.Duration(cfg.ConnectionTimeoutSec) * time.Second
		opts.SetConnectTimeout(timeout).SetServerSelectionTimeout(timeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("创建 mongo client 失败: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo 无法连通: %w", err)
	}
	return &Client{client: client, database: client.Database(cfg.Database)}, nil
}

// Close 断开连接。
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}

// Collection 返回指定名称的集合句柄。
func (c *Client) Collection(name string) *Collection {
	return &Collection{coll: c.database.Collection(name)}
}

// Collection 是单个集合上的最小读写接口。
type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) Name() string {
	return c.coll.Name()
}

// DeleteAll 无条件删除集合中的全部文档。
func (c *Collection) DeleteAll(ctx context.Context) (int64, error) {
	res, err := c.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("清空集合 %s 失败: %w", c.Name(), err)
	}
	return res.DeletedCount, nil
}

// InsertMany 按顺序批量写入，遇到第一条失败即停止。
func (c *Collection) InsertMany(ctx context.Context, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	res, err := c.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return insertedBefore(err, len(docs)), fmt.Errorf("写入集合 %s 失败: %w", c.Name(), err)
	}
	return len(res.InsertedIDs), nil
}

// insertedBefore 估算有序写入失败前已落库的条数。
// 出错时 InsertedIDs 包含全部尝试写入的文档，不能用来计数；
// 有序写入在第一个写错误处停止，其下标即已写入条数，其他错误按 0 计。
func insertedBefore(err error, attempted int) int {
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || len(bulkErr.WriteErrors) == 0 {
		return 0
	}
	idx := bulkErr.WriteErrors[0].Index
	for _, we := range bulkErr.WriteErrors[1:] {
		idx = min(idx, we.Index)
	}
	return max(0, min(idx, attempted))
}

// Count 返回集合文档数。
func (c *Collection) Count(ctx context.Context) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("统计集合 %s 失败: %w", c.Name(), err)
	}
	return n, nil
}

// RenameTo 将当前集合原子地重命名为 target，已存在的 target 会被删除。
func (c *Collection) RenameTo(ctx context.Context, target string) error {
	dbName := c.coll.Database().Name()
	cmd := bson.D{
		{Key: "renameCollection", Value: dbName + "." + c.Name()},
		{Key: "to", Value: dbName + "." + target},
		{Key: "dropTarget", Value: true},
	}
	admin := c.coll.Database().Client().Database("admin")
	if err := admin.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("重命名集合 %s -> %s 失败: %w", c.Name(), target, err)
	}
	return nil
}
