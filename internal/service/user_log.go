package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

// 分页参数的默认值
const (
	DefaultLogPageSize = 20
	MaxLogPageSize     = 100
)

// LogFilter 是日志搜索条件，零值表示不过滤
type LogFilter struct {
	UserID *uint  // 只返回该用户的日志
	Action string // 对 Action 做不区分大小写的子串匹配
	Limit  int    // 最多返回的条数，<=0 表示不限制
}

// UserLogService 负责审计日志的写入和查询。
type UserLogService struct {
	logRepo         repository.UserLogRepository
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// UserLogOption 配置 UserLogService
type UserLogOption func(*UserLogService)

// WithClock 替换日志时间戳使用的时钟
func WithClock(now func() time.Time) UserLogOption {
	return func(s *UserLogService) { s.now = now }
}

// WithPageSizes 设置分页的默认页大小和最大页大小；非正数保持默认值
func WithPageSizes(defaultSize, maxSize int) UserLogOption {
	return func(s *UserLogService) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

// NewUserLogService 创建 UserLogService 实例。
func NewUserLogService(logRepo repository.UserLogRepository, opts ...UserLogOption) *UserLogService {
	if logRepo == nil {
		panic("UserLogRepository cannot be nil for UserLogService")
	}
	s := &UserLogService{
		logRepo:         logRepo,
		now:             time.Now,
		defaultPageSize: DefaultLogPageSize,
		maxPageSize:     MaxLogPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultPageSize > s.maxPageSize {
		s.defaultPageSize = s.maxPageSize
	}
	return s
}

// LogAction 为用户追加一条审计日志，时间戳取调用时刻 (UTC)。
// description 和 details 可以为空。
func (s *UserLogService) LogAction(ctx context.Context, userID uint, action, description, details string) error {
	entry := &domain.UserLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		Details:     details,
		Timestamp:   s.now().UTC(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "action": action}).
			WithError(err).Error("Failed to persist user log")
		return storageError("Error logging action", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "action": action, "log_id": entry.ID}).
		Debug("User log recorded")
	return nil
}

// GetUserLogs 返回指定用户的全部日志，最新在前
func (s *UserLogService) GetUserLogs(ctx context.Context, userID uint) ([]domain.UserLog, error) {
	logs, err := s.logRepo.FindByUserID(ctx, userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("GetUserLogs: Repository error")
		return nil, storageError("Error retrieving user logs", err)
	}
	return logs, nil
}

// GetLogByID 根据 ID 返回单条日志
func (s *UserLogService) GetLogByID(ctx context.Context, id uint) (*domain.UserLog, error) {
	entry, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserLogNotFound) {
			return nil, logNotFound(id)
		}
		logrus.WithField("log_id", id).WithError(err).Error("GetLogByID: Repository error")
		return nil, storageError("Error retrieving log", err)
	}
	if entry == nil { // 防御
		return nil, logNotFound(id)
	}
	return entry, nil
}

// GetAllLogs 返回全部日志，最新在前
func (s *UserLogService) GetAllLogs(ctx context.Context) ([]domain.UserLog, error) {
	logs, err := s.logRepo.GetAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("GetAllLogs: Repository error")
		return nil, storageError("Error retrieving logs", err)
	}
	sortNewestFirst(logs)
	return logs, nil
}

// GetAllLogsPaged 返回一页日志。page 从 1 开始，pageSize 会被限制在 [1, maxPageSize]。
func (s *UserLogService) GetAllLogsPaged(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.UserLog], error) {
	page, pageSize = s.normalizePage(page, pageSize)

	logs, total, err := s.logRepo.FindPage(ctx, pageOffset(page, pageSize), pageSize)
	if err != nil {
		logrus.WithFields(logrus.Fields{"page": page, "page_size": pageSize}).
			WithError(err).Error("GetAllLogsPaged: Repository error")
		return nil, storageError("Error retrieving logs", err)
	}
	if logs == nil {
		logs = []domain.UserLog{}
	}
	return &domain.PagedResult[domain.UserLog]{
		Items:       logs,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  total,
	}, nil
}

// SearchLogs 按条件过滤日志 (最新在前)，同时返回截断前的匹配总数
func (s *UserLogService) SearchLogs(ctx context.Context, filter LogFilter) ([]domain.UserLog, int64, error) {
	var (
		logs []domain.UserLog
		err  error
	)
	if filter.UserID != nil {
		logs, err = s.GetUserLogs(ctx, *filter.UserID)
	} else {
		logs, err = s.GetAllLogs(ctx)
	}
	if err != nil {
		return nil, 0, err
	}

	if action := strings.TrimSpace(filter.Action); action != "" {
		needle := strings.ToLower(action)
		matched := logs[:0]
		for _, l := range logs {
			if strings.Contains(strings.ToLower(l.Action), needle) {
				matched = append(matched, l)
			}
		}
		logs = matched
	}

	total := int64(len(logs))
	if filter.Limit > 0 && len(logs) > filter.Limit {
		logs = logs[:filter.Limit]
	}
	return logs, total, nil
}

func (s *UserLogService) normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

// pageOffset 计算 (page-1)*pageSize；溢出时返回 math.MaxInt，查询结果为空页
func pageOffset(page, pageSize int) int {
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

func sortNewestFirst(logs []domain.UserLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].ID > logs[j].ID
		}
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
