package web

import (
	"fmt"
	"time"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
)

// Page 是所有页面共享的布局数据
type Page struct {
	Title   string
	Message string // 成功提示
	Error   string // 错误提示
}

type userListView struct {
	Page
	Users  []domain.User
	Filter string // "", "active", "inactive"
}

type userFormView struct {
	Page
	Action string // 表单提交地址
	IsEdit bool
	ID     uint
	Input  dto.UserInput
	Active bool
	Errors map[string]string
}

type userDetailsView struct {
	Page
	User       *domain.User
	Age        int
	RecentLogs []logItem
}

type userDeleteView struct {
	Page
	User *domain.User
}

type logItem struct {
	ID          uint
	UserID      uint
	UserName    string
	Action      string
	Description string
	Details     string
	Timestamp   time.Time
	TimeAgo     string
}

type logListView struct {
	Page
	Items        []logItem
	FilterUserID string
	FilterAction string
	TotalCount   int64
	UserID       uint // 只在单个用户的日志页设置
	UserName     string
}

type logDetailsView struct {
	Page
	Log logItem
}

type errorView struct {
	Page
	Message string
}

func toLogItem(l *domain.UserLog, userName string, now time.Time) logItem {
	return logItem{
		ID:          l.ID,
		UserID:      l.UserID,
		UserName:    userName,
		Action:      l.Action,
		Description: l.Description,
		Details:     l.Details,
		Timestamp:   l.Timestamp,
		TimeAgo:     timeAgo(now.Sub(l.Timestamp)),
	}
}

func toLogItems(logs []domain.UserLog, name func(uint) string, now time.Time) []logItem {
	items := make([]logItem, 0, len(logs))
	for i := range logs {
		items = append(items, toLogItem(&logs[i], name(logs[i].UserID), now))
	}
	return items
}

// timeAgo 把时间差格式化为 "3 days ago" / "1 hour ago" / "Just now"
func timeAgo(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return "Just now"
	}
}

func plural(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// age 计算到 today 为止的周岁，生日未到的年份不计
func age(dob, today time.Time) int {
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}
