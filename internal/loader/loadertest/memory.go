// Package loadertest 提供 loader.Collection 的内存实现，供测试使用。
package loadertest

import (
	"context"
	"sync"
)

// Store 持有一组按名称索引的内存集合，重命名在同一 Store 内生效。
type Store struct {
	mu    sync.Mutex
	colls map[string]*Collection
}

func NewStore() *Store {
	return &Store{colls: make(map[string]*Collection)}
}

// Collection 返回（必要时创建）指定名称的集合。
func (s *Store) Collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collectionLocked(name)
}

func (s *Store) collectionLocked(name string) *Collection {
	c, ok := s.colls[name]
	if !ok {
		c = &Collection{store: s, name: name}
		s.colls[name] = c
	}
	return c
}

// Collection 是内存集合。错误字段非空时对应操作直接失败。
type Collection struct {
	store *Store
	name  string
	docs  []any

	DeleteErr error
	InsertErr error
	CountErr  error
	RenameErr error
	// FailAfter 大于 0 时，写入累计超过该条数后返回 InsertErr。
	FailAfter int

	DeleteCalls int
	InsertCalls int
}

func (c *Collection) Name() string {
	return c.name
}

// Seed 直接写入文档，不计入调用次数。
func (c *Collection) Seed(docs ...any) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.docs = append(c.docs, docs...)
}

// Docs 返回当前文档的拷贝。
func (c *Collection) Docs() []any {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return append([]any(nil), c.docs...)
}

func (c *Collection) DeleteAll(context.Context) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.DeleteCalls++
	if c.DeleteErr != nil {
		return 0, c.DeleteErr
	}
	n := int64(len(c.docs))
	c.docs = nil
	return n, nil
}

func (c *Collection) InsertMany(_ context.Context, docs []any) (int, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.InsertCalls++
	if c.InsertErr != nil && c.FailAfter <= 0 {
		return 0, c.InsertErr
	}
	for i, doc := range docs {
		if c.InsertErr != nil && len(c.docs) >= c.FailAfter {
			return i, c.InsertErr
		}
		c.docs = append(c.docs, doc)
	}
	return len(docs), nil
}

func (c *Collection) Count(context.Context) (int64, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.CountErr != nil {
		return 0, c.CountErr
	}
	return int64(len(c.docs)), nil
}

// RenameTo 用当前集合内容覆盖 target，并清空自身。
func (c *Collection) RenameTo(_ context.Context, target string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if c.RenameErr != nil {
		return c.RenameErr
	}
	dst := c.store.collectionLocked(target)
	dst.docs = c.docs
	c.docs = nil
	return nil
}
