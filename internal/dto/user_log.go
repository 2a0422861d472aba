package dto

import (
	"time"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// UnknownUserName 用于日志所属用户已不存在的情况
const UnknownUserName = "Unknown User"

// UserLogDTO 是返回给客户端的日志表示，带有解析后的用户名
type UserLogDTO struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	UserName    string    `json:"userName"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
}

// PagedDTO 是分页结果
type PagedDTO[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
}

// UserNames 把用户 ID 解析为显示名，找不到时返回 "Unknown User"
type UserNames map[uint]string

// NewUserNames 从用户列表建立名称查找表
func NewUserNames(users []domain.User) UserNames {
	names := make(UserNames, len(users))
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}
	return names
}

// Lookup 返回用户的显示名
func (n UserNames) Lookup(id uint) string {
	if name, ok := n[id]; ok {
		return name
	}
	return UnknownUserName
}

// ToUserLogDTO 转换单条日志
func ToUserLogDTO(l *domain.UserLog, userName string) UserLogDTO {
	return UserLogDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		UserName:    userName,
		Action:      l.Action,
		Timestamp:   l.Timestamp,
		Description: l.Description,
		Details:     l.Details,
	}
}

// ToUserLogDTOs 转换日志列表，name 负责解析用户名；结果永远不为 nil
func ToUserLogDTOs(logs []domain.UserLog, name func(userID uint) string) []UserLogDTO {
	out := make([]UserLogDTO, 0, len(logs))
	for i := range logs {
		out = append(out, ToUserLogDTO(&logs[i], name(logs[i].UserID)))
	}
	return out
}

// ToPagedLogDTO 转换一页日志
func ToPagedLogDTO(page *domain.PagedResult[domain.UserLog], names UserNames) PagedDTO[UserLogDTO] {
	return PagedDTO[UserLogDTO]{
		Items:       ToUserLogDTOs(page.Items, names.Lookup),
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		TotalPages:  page.TotalPages(),
	}
}
