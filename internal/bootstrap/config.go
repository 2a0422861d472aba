package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/infra/setup"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// Config 结构体用于存储从环境变量或文件加载的配置
type Config struct {
	AppEnv     string // 应用环境 (development/production)
	ServerPort string
	LogLevel   string

	DB           setup.DBConfig
	SeedDemoData bool // 用户表为空时写入演示用户

	Redis           setup.RedisConfig // Addr 为空时不启用限流
	RedisKeyPrefix  string
	RateLimitMax    int
	RateLimitWindow time.Duration

	LogsDefaultPageSize int
	LogsMaxPageSize     int

	CORSAllowedOrigin string
}

// LoadConfig 从 .env 文件 (如果存在) 和环境变量加载配置
func LoadConfig() *Config {
	// 忽略错误，允许只使用环境变量
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     envString("APP_ENV", "development"),
		ServerPort: envString("SERVER_PORT", "8080"),
		LogLevel:   envString("LOG_LEVEL", "info"),
		DB: setup.DBConfig{
			Driver:     strings.ToLower(envString("DB_DRIVER", setup.DriverSQLite)),
			User:       os.Getenv("DB_USER"),
			Password:   os.Getenv("DB_PASSWORD"),
			Host:       os.Getenv("DB_HOST"),
			Port:       os.Getenv("DB_PORT"),
			Name:       os.Getenv("DB_NAME"),
			SQLitePath: os.Getenv("SQLITE_PATH"),
		},
		SeedDemoData: envBool("SEED_DEMO_DATA", false),
		Redis: setup.RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		RedisKeyPrefix:      envString("REDIS_KEY_PREFIX", "um:"),
		RateLimitMax:        envInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:     envDuration("RATE_LIMIT_WINDOW", time.Second),
		LogsDefaultPageSize: envInt("LOGS_DEFAULT_PAGE_SIZE", service.DefaultLogPageSize),
		LogsMaxPageSize:     envInt("LOGS_MAX_PAGE_SIZE", service.MaxLogPageSize),
		CORSAllowedOrigin:   envString("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
	}

	// 验证日志级别
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg
}

// IsProduction 判断是否运行在生产环境
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		logrus.Warnf("Invalid %s '%s', using default %d", key, raw, def)
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logrus.Warnf("Invalid %s '%s', using default %t", key, raw, def)
		return def
	}
	return v
}

// envDuration 接受 "1s" / "500ms" 这样的时长，或纯数字 (秒)
func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logrus.Warnf("Invalid %s '%s', using default %s", key, raw, def)
		return def
	}
	return d
}
