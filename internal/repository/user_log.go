package repository

import (
	"context"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// UserLogRepository 定义了审计日志的存储和查询操作。
// 日志只追加；服务层不会调用 Update / Delete。
type UserLogRepository interface {
	Store[domain.UserLog]

	// FindByUserID 返回指定用户的全部日志，按时间倒序 (最新在前)。
	FindByUserID(ctx context.Context, userID uint) ([]domain.UserLog, error)

	// FindPage 按时间倒序返回 [offset, offset+limit) 区间的日志，以及日志总数。
	FindPage(ctx context.Context, offset, limit int) ([]domain.UserLog, int64, error)
}
