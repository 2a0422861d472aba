// Package memory 提供 repository 接口的进程内实现，用于本地运行 (DB_DRIVER=memory) 和测试。
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// Store 是 repository.Store 的内存实现。
// PT 是 *T，需要实现 domain.Entity 以便读写 ID。
// 所有读写都在同一把锁下完成，唯一键检查和写入是原子的。
type Store[T any, PT interface {
	*T
	domain.Entity
}] struct {
	mu        sync.RWMutex
	records   map[uint]T
	nextID    uint
	uniqueKey func(PT) string // 可选：返回需要唯一的键，空字符串表示不参与检查
}

// Option 配置 Store
type Option[T any, PT interface {
	*T
	domain.Entity
}] func(*Store[T, PT])

// WithUniqueKey 为 Store 设置唯一键函数
func WithUniqueKey[T any, PT interface {
	*T
	domain.Entity
}](fn func(PT) string) Option[T, PT] {
	return func(s *Store[T, PT]) {
		s.uniqueKey = fn
	}
}

// NewStore 创建空的内存 Store
func NewStore[T any, PT interface {
	*T
	domain.Entity
}](opts ...Option[T, PT]) *Store[T, PT] {
	s := &Store[T, PT]{records: make(map[uint]T), nextID: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll 按 ID 升序返回全部记录的副本
func (s *Store[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		items = append(items, s.records[id])
	}
	return items, nil
}

// GetByID 返回记录副本；不存在时返回 repository.ErrNotFound
func (s *Store[T, PT]) GetByID(ctx context.Context, id uint) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

// Create 分配新 ID 并保存记录
func (s *Store[T, PT]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(PT(entity), 0) {
		return repository.ErrDuplicateEntry
	}
	PT(entity).SetEntityID(s.nextID)
	s.nextID++
	s.records[PT(entity).EntityID()] = *entity
	return nil
}

// Update 覆盖已有记录
func (s *Store[T, PT]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := PT(entity).EntityID()
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	if s.conflicts(PT(entity), id) {
		return repository.ErrDuplicateEntry
	}
	s.records[id] = *entity
	return nil
}

// Delete 删除记录；记录不存在时不报错 (与 GORM 行为一致)
func (s *Store[T, PT]) Delete(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, PT(entity).EntityID())
	return nil
}

// Filter 在读锁下返回满足条件的记录 (ID 升序)
func (s *Store[T, PT]) Filter(ctx context.Context, keep func(*T) bool) ([]T, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

// conflicts 检查唯一键是否被除 selfID 以外的记录占用。调用方需持有锁。
func (s *Store[T, PT]) conflicts(entity PT, selfID uint) bool {
	if s.uniqueKey == nil {
		return false
	}
	key := s.uniqueKey(entity)
	if key == "" {
		return false
	}
	for id, existing := range s.records {
		if id == selfID {
			continue
		}
		if s.uniqueKey(PT(&existing)) == key {
			return true
		}
	}
	return false
}
