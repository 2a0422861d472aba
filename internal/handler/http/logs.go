package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// LogHandler 封装了审计日志查询相关的 JSON API
type LogHandler struct {
	logService  *service.UserLogService
	userService *service.UserService
}

// NewLogHandler 创建 LogHandler 实例
func NewLogHandler(logService *service.UserLogService, userService *service.UserService) *LogHandler {
	if logService == nil || userService == nil {
		panic("UserLogService and UserService cannot be nil for LogHandler")
	}
	return &LogHandler{logService: logService, userService: userService}
}

// ListLogs 处理 GET /api/logs?page=&pageSize=。
// 非法的分页参数按 0 处理，由服务层修正为默认值。
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	ctx := c.Request.Context()

	result, err := h.logService.GetAllLogsPaged(ctx, page, pageSize)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving logs")
		return
	}
	names, ok := h.userNames(c, "An error occurred while retrieving logs")
	if !ok {
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToPagedLogDTO(result, names))
}

// GetLog 处理 GET /api/logs/:id
func (h *LogHandler) GetLog(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid log ID")
	if !ok {
		return
	}
	entry, err := h.logService.GetLogByID(c.Request.Context(), id)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving the log")
		return
	}
	names, ok := h.userNames(c, "An error occurred while retrieving the log")
	if !ok {
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToUserLogDTO(entry, names.Lookup(entry.UserID)))
}

// GetUserLogs 处理 GET /api/logs/user/:userId，用户不存在时返回 404
func (h *LogHandler) GetUserLogs(c *gin.Context) {
	userID, ok := parseID(c, "userId", "Invalid user ID")
	if !ok {
		return
	}
	names, ok := h.userNames(c, "An error occurred while retrieving user logs")
	if !ok {
		return
	}
	name, exists := names[userID]
	if !exists {
		ErrorResponse(c, http.StatusNotFound, fmt.Sprintf("User with ID %d not found", userID))
		return
	}

	logs, err := h.logService.GetUserLogs(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving user logs")
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToUserLogDTOs(logs, func(uint) string { return name }))
}

// userNames 通过批量读取解析用户名，批量读取不会产生 Viewed 日志
func (h *LogHandler) userNames(c *gin.Context, fallback string) (dto.UserNames, bool) {
	users, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err, fallback)
		return nil, false
	}
	return dto.NewUserNames(users), true
}
