package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sj140497/SJ-InfloTechTest/internal/infra/setup"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "LOG_LEVEL", "DB_DRIVER", "REDIS_ADDR",
		"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "SEED_DEMO_DATA", "LOGS_DEFAULT_PAGE_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, setup.DriverSQLite, cfg.DB.Driver)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, 20, cfg.LogsDefaultPageSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("RATE_LIMIT_MAX", "oops")
	t.Setenv("RATE_LIMIT_WINDOW", "250ms")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadConfig()

	assert.Equal(t, setup.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitWindow)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, 3, cfg.Redis.DB)

	t.Setenv("RATE_LIMIT_WINDOW", "60")
	assert.Equal(t, time.Minute, LoadConfig().RateLimitWindow)
}

func newTestApp(t *testing.T, driver string) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &Config{
		AppEnv:              "test",
		ServerPort:          "0",
		LogLevel:            "error",
		DB:                  setup.DBConfig{Driver: driver, SQLitePath: ":memory:"},
		SeedDemoData:        true,
		LogsDefaultPageSize: 20,
		LogsMaxPageSize:     100,
		CORSAllowedOrigin:   "*",
	}
	app, err := NewAppWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.closeResources)
	return app
}

func TestNewApp_ServesSeededUsers(t *testing.T) {
	for _, driver := range []string{setup.DriverMemory, setup.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			app := newTestApp(t, driver)

			w := httptest.NewRecorder()
			app.HttpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))
			require.Equal(t, http.StatusOK, w.Code)
			var users []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
			assert.Len(t, users, len(setup.DemoUsers()))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			w = httptest.NewRecorder()
			app.HttpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/list", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "jblaze@example.com")

			w = httptest.NewRecorder()
			app.HttpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
			assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
		})
	}
}
