// Package domain 定义了应用程序中使用的核心数据结构 (数据库模型)。
package domain

import (
	"strings"
	"time"
)

// DateLayout 是出生日期在日志详情、表单和 JSON 中使用的格式。
const DateLayout = "2006-01-02"

// User 表示系统中管理的一个用户记录。
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                       // 用户唯一标识符 (由存储分配)
	Forename    string    `gorm:"size:50;not null" json:"forename"`                           // 名
	Surname     string    `gorm:"size:50;not null" json:"surname"`                            // 姓
	Email       string    `gorm:"size:255;not null" json:"email"`                             // 保留用户输入的原始大小写
	EmailKey    string    `gorm:"size:191;not null;uniqueIndex:idx_users_email_key" json:"-"` // 规范化邮箱，由存储层维护唯一约束
	DateOfBirth time.Time `gorm:"type:date;not null" json:"dateOfBirth"`                      // 出生日期 (只使用日期部分)
	IsActive    bool      `gorm:"not null;index" json:"isActive"`
}

// FullName 返回 "名 姓"。
func (u *User) FullName() string {
	return u.Forename + " " + u.Surname
}

// StatusLabel 返回用于日志和页面展示的账户状态。
func (u *User) StatusLabel() string {
	return StatusLabel(u.IsActive)
}

// StatusLabel 将 active 标志转换为 "Active" / "Inactive"。
func StatusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// NormalizeEmail 生成用于唯一性比较的邮箱键 (去空白 + 小写)。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EntityID 实现 Entity 接口。
func (u *User) EntityID() uint { return u.ID }

// SetEntityID 实现 Entity 接口。
func (u *User) SetEntityID(id uint) { u.ID = id }

// UniqueKey 返回需要在存储中保持唯一的键。
func (u *User) UniqueKey() string { return NormalizeEmail(u.Email) }

// Entity 是可以被通用存储保存的记录，ID 由存储分配。
type Entity interface {
	EntityID() uint
	SetEntityID(id uint)
}
