package repository

import (
	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
// 实现必须在存储层保证 domain.NormalizeEmail(Email) 唯一。
type UserRepository interface {
	Store[domain.User]
}
