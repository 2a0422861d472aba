package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"strings" // 用于检查错误字符串 (驱动未翻译错误时的后备方案)

	"gorm.io/gorm"

	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// Store 是 repository.Store 接口的通用 GORM 实现。
// T 必须是带 gorm 标签、主键列为 id 的模型。
type Store[T any] struct {
	db   *gorm.DB
	name string // 用于错误信息的实体名称
}

// NewStore 创建 Store 实例
func NewStore[T any](db *gorm.DB, name string) *Store[T] {
	if db == nil {
		panic("database connection cannot be nil for gorm Store")
	}
	return &Store[T]{db: db, name: name}
}

// GetAll 按主键顺序返回全部记录
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	var items []T
	if err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("gorm: get all %s: %w", s.name, err)
	}
	return items, nil
}

// GetByID 根据主键查找记录
func (s *Store[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find %s by id %d: %w", s.name, id, err)
	}
	return &item, nil
}

// Create 插入新记录，GORM 会把自增 ID 回填到 entity
func (s *Store[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create %s: %w", s.name, err)
	}
	return nil
}

// Update 覆盖记录的全部列 (包括零值)，记录不存在时返回 repository.ErrNotFound。
// 不使用 Save，避免记录不存在时被隐式插入。
// MySQL 需要 clientFoundRows=true，RowsAffected 才会统计匹配行而不是变更行。
func (s *Store[T]) Update(ctx context.Context, entity *T) error {
	result := s.db.WithContext(ctx).Model(entity).Select("*").Updates(entity)
	if err := result.Error; err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: update %s: %w", s.name, err)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete 按主键物理删除记录
func (s *Store[T]) Delete(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Delete(entity).Error; err != nil {
		return fmt.Errorf("gorm: delete %s: %w", s.name, err)
	}
	return nil
}

// isDuplicateEntryError 检查唯一约束错误。
// 优先使用 GORM 的 TranslateError 结果，再回退到常见的驱动错误字符串。
func isDuplicateEntryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "Duplicate entry") || // MySQL
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
