// Package dto 定义了 HTTP 层 (JSON API 和 Web 表单) 与客户端交换的数据结构。
package dto

import (
	"strings"
	"time"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// UserInput 是创建/更新用户时客户端提交的数据，同时支持 JSON 和表单绑定。
// DateOfBirth 使用 yyyy-MM-dd 格式，不能晚于今天。
type UserInput struct {
	Forename    string `json:"forename" form:"forename" binding:"required,notblank,max=50"`
	Surname     string `json:"surname" form:"surname" binding:"required,notblank,max=50"`
	Email       string `json:"email" form:"email" binding:"required,email,max=255"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth" binding:"required,datetime=2006-01-02,notfuture"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
}

// ToUser 把输入转换为领域模型。isActive 缺省时使用 defaultActive。
// 调用前输入必须已经通过校验 (日期格式正确)。
func (in *UserInput) ToUser(id uint, defaultActive bool) (*domain.User, error) {
	dob, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.DateOfBirth))
	if err != nil {
		return nil, err
	}
	active := defaultActive
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return &domain.User{
		ID:          id,
		Forename:    strings.TrimSpace(in.Forename),
		Surname:     strings.TrimSpace(in.Surname),
		Email:       strings.TrimSpace(in.Email),
		DateOfBirth: dob,
		IsActive:    active,
	}, nil
}

// Active 返回表单中 isActive 的值，缺省为 defaultActive
func (in *UserInput) Active(defaultActive bool) bool {
	if in.IsActive == nil {
		return defaultActive
	}
	return *in.IsActive
}

// UserInputFrom 用已有用户填充编辑表单
func UserInputFrom(u *domain.User) UserInput {
	active := u.IsActive
	return UserInput{
		Forename:    u.Forename,
		Surname:     u.Surname,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth.Format(domain.DateLayout),
		IsActive:    &active,
	}
}

// UserDTO 是返回给客户端的用户表示
type UserDTO struct {
	ID          uint   `json:"id"`
	Forename    string `json:"forename"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	IsActive    bool   `json:"isActive"`
}

// UserDetailDTO 是用户详情，附带该用户的活动日志 (最新在前)
type UserDetailDTO struct {
	UserDTO
	Logs []UserLogDTO `json:"logs"`
}

// ToUserDTO 转换单个用户
func ToUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Forename:    u.Forename,
		Surname:     u.Surname,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth.Format(domain.DateLayout),
		IsActive:    u.IsActive,
	}
}

// ToUserDTOs 转换用户列表，结果永远不为 nil
func ToUserDTOs(users []domain.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}

// ToUserDetailDTO 组合用户和其日志
func ToUserDetailDTO(u *domain.User, logs []domain.UserLog) UserDetailDTO {
	name := u.FullName()
	return UserDetailDTO{
		UserDTO: ToUserDTO(u),
		Logs:    ToUserLogDTOs(logs, func(uint) string { return name }),
	}
}

// ErrorDTO 是所有错误响应的结构
type ErrorDTO struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"` // 字段校验失败时的逐条消息
}
