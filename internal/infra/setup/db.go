package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 支持的数据库驱动
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory" // 不使用数据库，仓库由内存实现
)

// DBConfig 描述数据库连接参数
type DBConfig struct {
	Driver     string
	User       string
	Password   string
	Host       string
	Port       string
	Name       string
	SQLitePath string // 仅 sqlite 使用，":memory:" 表示内存数据库
}

// InitDB 根据配置打开 GORM 连接并设置连接池
func InitDB(cfg DBConfig, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		TranslateError: true, // 让唯一约束错误统一为 gorm.ErrDuplicatedKey
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		}),
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB() // 获取底层的 *sql.DB 对象
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// SQLite 只允许一个写连接；内存库每个连接是独立的数据库
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	log.WithField("driver", cfg.Driver).Info("Database connected")
	return db, nil
}

// dialectorFor 根据驱动构建 DSN 和 GORM Dialector
func dialectorFor(cfg DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverMySQL:
		if cfg.User == "" {
			return nil, fmt.Errorf("DB_USER environment variable not set")
		}
		host, port := orDefault(cfg.Host, "127.0.0.1"), orDefault(cfg.Port, "3306")
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
			cfg.User, cfg.Password, host, port, orDefault(cfg.Name, "user_management"))
		return mysql.Open(dsn), nil
	case DriverPostgres:
		if cfg.User == "" {
			return nil, fmt.Errorf("DB_USER environment variable not set")
		}
		host, port := orDefault(cfg.Host, "127.0.0.1"), orDefault(cfg.Port, "5432")
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			host, cfg.User, cfg.Password, orDefault(cfg.Name, "user_management"), port)
		return postgres.Open(dsn), nil
	case DriverSQLite, "":
		path := orDefault(cfg.SQLitePath, "data/user_management.db")
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// gormLogLevel 把 logrus 级别映射为 GORM 日志级别
func gormLogLevel(level logrus.Level) logger.LogLevel {
	switch {
	case level >= logrus.DebugLevel:
		return logger.Info
	case level >= logrus.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
