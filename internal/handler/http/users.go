package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// UserHandler 封装了用户管理相关的 JSON API
type UserHandler struct {
	userService *service.UserService
	logService  *service.UserLogService
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService, logService *service.UserLogService) *UserHandler {
	if userService == nil || logService == nil {
		panic("UserService and UserLogService cannot be nil for UserHandler")
	}
	return &UserHandler{userService: userService, logService: logService}
}

// ListUsers 处理 GET /api/users?isActive=
func (h *UserHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		users []domain.User
		err   error
	)
	if raw := c.Query("isActive"); raw != "" {
		isActive, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			ErrorResponse(c, http.StatusBadRequest, "isActive must be true or false")
			return
		}
		users, err = h.userService.FilterByActive(ctx, isActive)
	} else {
		users, err = h.userService.GetAll(ctx)
	}
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving users")
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser 处理 GET /api/users/:id，返回用户及其日志
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, id)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving the user")
		return
	}
	logs, err := h.logService.GetUserLogs(ctx, id)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while retrieving the user")
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToUserDetailDTO(user, logs))
}

// CreateUser 处理 POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var in dto.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logrus.WithError(err).Debug("Handler.CreateUser: Invalid input")
		ValidationErrorResponse(c, http.StatusBadRequest, err)
		return
	}
	user, err := in.ToUser(0, true)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Date of birth must be a date in the format yyyy-MM-dd")
		return
	}

	created, err := h.userService.Create(c.Request.Context(), user)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while creating the user")
		return
	}

	logrus.WithField("user_id", created.ID).Info("Handler.CreateUser: User created successfully")
	c.Header("Location", fmt.Sprintf("/api/users/%d", created.ID))
	SuccessResponse(c, http.StatusCreated, dto.ToUserDTO(created))
}

// UpdateUser 处理 PUT /api/users/:id，isActive 必须显式提供
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}
	var in dto.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logrus.WithError(err).WithField("user_id", id).Debug("Handler.UpdateUser: Invalid input")
		ValidationErrorResponse(c, http.StatusBadRequest, err)
		return
	}
	if in.IsActive == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorDTO{
			Message: "Validation failed",
			Errors:  []string{"Account status is required"},
		})
		return
	}
	user, err := in.ToUser(id, false)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Date of birth must be a date in the format yyyy-MM-dd")
		return
	}

	updated, err := h.userService.Update(c.Request.Context(), user)
	if err != nil {
		HandleServiceError(c, err, "An error occurred while updating the user")
		return
	}
	SuccessResponse(c, http.StatusOK, dto.ToUserDTO(updated))
}

// DeleteUser 处理 DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id", "Invalid user ID")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		HandleServiceError(c, err, "An error occurred while deleting the user")
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID 解析路径参数中的 ID，失败时直接写 400 响应
func parseID(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return uint(id), true
}
