package gormpersistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// GormUserRepository 是 UserRepository 接口的 GORM 实现。
// email_key 列上的唯一索引保证邮箱在数据库层面唯一 (不区分大小写)。
type GormUserRepository struct {
	*Store[domain.User]
}

var _ repository.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository 创建 GormUserRepository 实例
// db *gorm.DB 通过依赖注入传入
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{Store: NewStore[domain.User](db, "user")}
}

// Create 在插入前刷新规范化邮箱
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	user.EmailKey = domain.NormalizeEmail(user.Email)
	return r.Store.Create(ctx, user)
}

// Update 在更新前刷新规范化邮箱
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	user.EmailKey = domain.NormalizeEmail(user.Email)
	return r.Store.Update(ctx, user)
}
