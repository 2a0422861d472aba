package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// GormUserLogRepository 是 UserLogRepository 接口的 GORM 实现
type GormUserLogRepository struct {
	*Store[domain.UserLog]
	db *gorm.DB
}

var _ repository.UserLogRepository = (*GormUserLogRepository)(nil)

// NewGormUserLogRepository 创建 GormUserLogRepository 实例
func NewGormUserLogRepository(db *gorm.DB) *GormUserLogRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserLogRepository")
	}
	return &GormUserLogRepository{Store: NewStore[domain.UserLog](db, "user log"), db: db}
}

// newestFirst 是日志的统一排序：时间倒序，同一时间按 ID 倒序
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "timestamp"}, Desc: true},
	{Column: clause.Column{Name: "id"}, Desc: true},
}}

// FindByUserID 返回指定用户的全部日志 (最新在前)
func (r *GormUserLogRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.UserLog, error) {
	var logs []domain.UserLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Clauses(newestFirst).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find logs for user %d: %w", userID, err)
	}
	return logs, nil
}

// FindPage 返回一页日志和日志总数
func (r *GormUserLogRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.UserLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.UserLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gorm: count user logs: %w", err)
	}

	var logs []domain.UserLog
	err := r.db.WithContext(ctx).
		Clauses(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gorm: find user logs page (offset %d, limit %d): %w", offset, limit, err)
	}
	return logs, total, nil
}
