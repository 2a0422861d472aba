package repository

import "context"

// Store 定义了对单一实体类型的通用记录存储操作。
// 各方法之间没有跨调用的事务保证。
type Store[T any] interface {
	// GetAll 返回该类型的全部记录。
	GetAll(ctx context.Context) ([]T, error)

	// GetByID 根据 ID 查找记录。
	// 如果记录不存在，返回 ErrNotFound。
	GetByID(ctx context.Context, id uint) (*T, error)

	// Create 插入新记录，并把存储分配的 ID 写回 entity。
	// 违反唯一约束时返回 ErrDuplicateEntry。
	Create(ctx context.Context, entity *T) error

	// Update 按 ID 覆盖已有记录。
	// 记录不存在时返回 ErrNotFound，违反唯一约束时返回 ErrDuplicateEntry。
	Update(ctx context.Context, entity *T) error

	// Delete 物理删除记录。
	Delete(ctx context.Context, entity *T) error
}
