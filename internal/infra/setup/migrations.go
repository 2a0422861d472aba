package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
)

// MigrateDB 使用 GORM AutoMigrate 创建或更新 users 和 user_logs 表。
// user_logs.user_id 只建索引，不建外键，用户删除后日志仍然保留。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		logrus.Errorf("Failed to auto-migrate users table: %v", err)
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	if err := db.AutoMigrate(&domain.UserLog{}); err != nil {
		logrus.Errorf("Failed to auto-migrate user_logs table: %v", err)
		return fmt.Errorf("failed to migrate user_logs table: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
