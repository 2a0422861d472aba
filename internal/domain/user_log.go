package domain

import "time"

// 用户操作的标签 (UserLog.Action)
const (
	UserActionCreated        = "Created"
	UserActionUpdated        = "Updated"
	UserActionDeleted        = "Deleted"
	UserActionViewed         = "Viewed"
	UserActionActivated      = "Activated"
	UserActionDeactivated    = "Deactivated"
	UserActionEmailChanged   = "Email Changed"
	UserActionProfileUpdated = "Profile Updated"
)

// UserLog 表示针对某个用户执行的一次操作的审计记录。
// 记录只追加，不会被更新或删除；用户被删除后日志仍然保留。
type UserLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"` // 不建外键，删除用户时不级联
	Action      string    `gorm:"size:100;not null" json:"action"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Details     string    `gorm:"size:2000" json:"details,omitempty"`
	Timestamp   time.Time `gorm:"index;not null" json:"timestamp"` // 由服务在调用时设置 (UTC)
}

// EntityID 实现 Entity 接口。
func (l *UserLog) EntityID() uint { return l.ID }

// SetEntityID 实现 Entity 接口。
func (l *UserLog) SetEntityID(id uint) { l.ID = id }
