package memory

import (
	"context"
	"sort"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// UserRepository 是 repository.UserRepository 的内存实现，邮箱 (不区分大小写) 唯一
type UserRepository struct {
	*Store[domain.User, *domain.User]
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository 创建内存用户存储
func NewUserRepository() *UserRepository {
	return &UserRepository{
		Store: NewStore[domain.User, *domain.User](
			WithUniqueKey[domain.User, *domain.User](func(u *domain.User) string { return u.UniqueKey() }),
		),
	}
}

// Create 在保存前刷新规范化邮箱
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	user.EmailKey = domain.NormalizeEmail(user.Email)
	return r.Store.Create(ctx, user)
}

// Update 在保存前刷新规范化邮箱
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.EmailKey = domain.NormalizeEmail(user.Email)
	return r.Store.Update(ctx, user)
}

// UserLogRepository 是 repository.UserLogRepository 的内存实现
type UserLogRepository struct {
	*Store[domain.UserLog, *domain.UserLog]
}

var _ repository.UserLogRepository = (*UserLogRepository)(nil)

// NewUserLogRepository 创建内存日志存储
func NewUserLogRepository() *UserLogRepository {
	return &UserLogRepository{Store: NewStore[domain.UserLog, *domain.UserLog]()}
}

// FindByUserID 返回指定用户的日志 (最新在前)
func (r *UserLogRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.UserLog, error) {
	logs, err := r.Filter(ctx, func(l *domain.UserLog) bool { return l.UserID == userID })
	if err != nil {
		return nil, err
	}
	sortNewestFirst(logs)
	return logs, nil
}

// FindPage 返回一页日志 (最新在前) 和日志总数
func (r *UserLogRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.UserLog, int64, error) {
	logs, err := r.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	sortNewestFirst(logs)
	total := int64(len(logs))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(logs) || limit <= 0 {
		return []domain.UserLog{}, total, nil
	}
	end := len(logs)
	if limit < end-offset {
		end = offset + limit
	}
	return logs[offset:end], total, nil
}

func sortNewestFirst(logs []domain.UserLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].ID > logs[j].ID
		}
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
