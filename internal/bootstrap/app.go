package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
	httpHandler "github.com/sj140497/SJ-InfloTechTest/internal/handler/http"
	"github.com/sj140497/SJ-InfloTechTest/internal/handler/web"
	gormpersistence "github.com/sj140497/SJ-InfloTechTest/internal/infra/persistence/gorm"
	"github.com/sj140497/SJ-InfloTechTest/internal/infra/persistence/memory"
	"github.com/sj140497/SJ-InfloTechTest/internal/infra/setup"
	"github.com/sj140497/SJ-InfloTechTest/internal/middleware"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB      // DB_DRIVER=memory 时为 nil
	RedisClient *redis.Client // 未配置 REDIS_ADDR 时为 nil
	HttpServer  *http.Server
}

// NewApp 加载配置并创建应用
func NewApp() (*App, error) {
	return NewAppWithConfig(context.Background(), LoadConfig())
}

// NewAppWithConfig 根据给定配置创建并初始化应用的所有组件
func NewAppWithConfig(ctx context.Context, cfg *Config) (*App, error) {
	// 1. 初始化 Logger
	log := newLogger(cfg)
	log.Info("Configuration loaded successfully")

	app := &App{Config: cfg, Log: log}

	// 2. 初始化存储
	userRepo, logRepo, err := app.initRepositories()
	if err != nil {
		app.closeResources()
		return nil, err
	}
	if cfg.SeedDemoData {
		if _, err := setup.SeedDemoUsers(ctx, userRepo); err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	// 3. Redis (可选，仅用于限流)
	if cfg.Redis.Addr != "" {
		client, err := setup.InitRedis(ctx, cfg.Redis)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = client
		log.WithField("addr", cfg.Redis.Addr).Info("Redis client initialized")
	} else {
		log.Info("REDIS_ADDR not set, rate limiting disabled")
	}

	// 4. 初始化 Services
	logService := service.NewUserLogService(logRepo,
		service.WithPageSizes(cfg.LogsDefaultPageSize, cfg.LogsMaxPageSize))
	userService := service.NewUserService(userRepo, logService)
	log.Info("Services initialized")

	// 5. 初始化 Gin Engine 和路由
	router, err := app.newRouter(userService, logService)
	if err != nil {
		app.closeResources()
		return nil, err
	}

	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info("Application assembled successfully")
	return app, nil
}

// newLogger 按配置设置 logrus 的标准 Logger，服务层直接使用包级 logrus
func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

// initRepositories 根据 DB_DRIVER 选择 GORM 或内存实现
func (a *App) initRepositories() (repository.UserRepository, repository.UserLogRepository, error) {
	if a.Config.DB.Driver == setup.DriverMemory {
		a.Log.Warn("DB_DRIVER=memory: data will be lost on restart")
		return memory.NewUserRepository(), memory.NewUserLogRepository(), nil
	}

	db, err := setup.InitDB(a.Config.DB, a.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init DB: %w", err)
	}
	a.DB = db
	if err := setup.MigrateDB(db); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	a.Log.Info("Database migrated")
	return gormpersistence.NewGormUserRepository(db), gormpersistence.NewGormUserLogRepository(db), nil
}

func (a *App) newRouter(userService *service.UserService, logService *service.UserLogService) (*gin.Engine, error) {
	if a.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HTMLRender = renderer
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(LoggerMiddleware(a.Log))
	router.Use(middleware.CORS(a.Config.CORSAllowedOrigin))
	if a.RedisClient != nil {
		router.Use(middleware.RateLimit(a.RedisClient, a.Config.RedisKeyPrefix, a.Config.RateLimitMax, a.Config.RateLimitWindow))
	}

	httpHandler.RegisterRoutes(router.Group("/api"),
		httpHandler.NewUserHandler(userService, logService),
		httpHandler.NewLogHandler(logService, userService))
	web.RegisterRoutes(router, web.NewHandler(userService, logService))
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	return router, nil
}

// Start 在后台启动 HTTP 服务器
func (a *App) Start() {
	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.HttpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.HttpServer.Shutdown(ctx); err != nil {
			a.Log.Errorf("Error shutting down HTTP server: %v", err)
		} else {
			a.Log.Info("HTTP server shut down gracefully.")
		}
	}

	a.closeResources()
	a.Log.Info("Application shutdown complete.")
}

// closeResources 关闭 Redis 和数据库连接
func (a *App) closeResources() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
		a.RedisClient = nil
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
		a.DB = nil
	}
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
			"request_id":  middleware.GetRequestID(c),
		})

		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
