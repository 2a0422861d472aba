package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// 日志列表页和用户详情页显示的条数
const (
	logListLimit   = 50
	recentLogLimit = 10
)

// Handler 处理所有 HTML 页面请求
type Handler struct {
	users *service.UserService
	logs  *service.UserLogService
	now   func() time.Time
}

// Option 配置 Handler
type Option func(*Handler)

// WithClock 替换计算年龄和相对时间使用的时钟
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler 创建页面 Handler
func NewHandler(users *service.UserService, logs *service.UserLogService, opts ...Option) *Handler {
	if users == nil || logs == nil {
		panic("UserService and UserLogService cannot be nil for web Handler")
	}
	h := &Handler{users: users, logs: logs, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes 注册页面路由
func RegisterRoutes(r gin.IRouter, h *Handler) {
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/users/list") })

	users := r.Group("/users")
	{
		users.GET("/list", h.ListUsers)
		users.GET("/create", h.CreateForm)
		users.POST("/create", h.Create)
		users.GET("/edit/:id", h.EditForm)
		users.POST("/edit/:id", h.Edit)
		users.GET("/details/:id", h.Details)
		users.GET("/delete/:id", h.DeleteConfirm)
		users.POST("/delete/:id", h.Delete)
	}
	logs := r.Group("/logs")
	{
		logs.GET("", h.ListLogs)
		logs.GET("/details/:id", h.LogDetails)
		logs.GET("/user/:userId", h.UserLogs)
	}
}

// ListUsers 显示用户列表，?isActive=true|false 过滤
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	view := userListView{Page: h.page(c, "Users")}

	var err error
	switch active, parseErr := strconv.ParseBool(c.Query("isActive")); {
	case parseErr != nil:
		view.Users, err = h.users.GetAll(ctx)
	case active:
		view.Filter = "active"
		view.Users, err = h.users.FilterByActive(ctx, true)
	default:
		view.Filter = "inactive"
		view.Users, err = h.users.FilterByActive(ctx, false)
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, pageUserList, view)
}

// CreateForm 显示空的创建表单，账户默认启用
func (h *Handler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, pageUserForm, userFormView{
		Page:   h.page(c, "Add User"),
		Action: "/users/create",
		Active: true,
	})
}

// Create 处理创建表单提交
func (h *Handler) Create(c *gin.Context) {
	view := userFormView{Page: Page{Title: "Add User"}, Action: "/users/create"}
	if !h.bindForm(c, &view) {
		return
	}
	user, err := view.Input.ToUser(0, false)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, err.Error())
		return
	}

	created, err := h.users.Create(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			h.renderForm(c, http.StatusConflict, view, service.Message(err, ""))
			return
		}
		h.renderError(c, err)
		return
	}
	logrus.WithField("user_id", created.ID).Info("Web.Create: User created")
	redirectWith(c, "/users/list", "msg", "User created successfully!")
}

// EditForm 显示编辑表单
func (h *Handler) EditForm(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLookupError(c, err, "/users/list", "User not found.")
		return
	}
	c.HTML(http.StatusOK, pageUserForm, userFormView{
		Page:   h.page(c, "Edit User"),
		Action: fmt.Sprintf("/users/edit/%d", id),
		IsEdit: true,
		ID:     id,
		Input:  dto.UserInputFrom(user),
		Active: user.IsActive,
	})
}

// Edit 处理编辑表单提交
func (h *Handler) Edit(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	view := userFormView{
		Page:   Page{Title: "Edit User"},
		Action: fmt.Sprintf("/users/edit/%d", id),
		IsEdit: true,
		ID:     id,
	}
	if !h.bindForm(c, &view) {
		return
	}
	user, err := view.Input.ToUser(id, false)
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, view, err.Error())
		return
	}

	updated, err := h.users.Update(c.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailInUse):
			h.renderForm(c, http.StatusConflict, view, service.Message(err, ""))
		case errors.Is(err, service.ErrNotFound):
			redirectWith(c, "/users/list", "err", "User not found.")
		default:
			h.renderError(c, err)
		}
		return
	}
	redirectWith(c, "/users/list", "msg", fmt.Sprintf("User '%s' updated successfully!", updated.FullName()))
}

// Details 显示用户详情、年龄以及最近的活动
func (h *Handler) Details(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.handleLookupError(c, err, "/users/list", "User not found.")
		return
	}
	logs, err := h.logs.GetUserLogs(ctx, id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if len(logs) > recentLogLimit {
		logs = logs[:recentLogLimit]
	}

	now := h.now()
	name := user.FullName()
	c.HTML(http.StatusOK, pageUserDetails, userDetailsView{
		Page:       h.page(c, name),
		User:       user,
		Age:        age(user.DateOfBirth, now),
		RecentLogs: toLogItems(logs, func(uint) string { return name }, now),
	})
}

// DeleteConfirm 显示删除确认页
func (h *Handler) DeleteConfirm(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLookupError(c, err, "/users/list", "User not found.")
		return
	}
	c.HTML(http.StatusOK, pageUserDelete, userDeleteView{Page: h.page(c, "Delete User"), User: user})
}

// Delete 处理删除确认，确认页通过隐藏字段 name 传回用户名用于提示
func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	name := strings.TrimSpace(c.PostForm("name"))

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			redirectWith(c, "/users/list", "err", "User not found.")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("Web.Delete: Failed to delete user")
		redirectWith(c, "/users/list", "err", fmt.Sprintf("Failed to delete user '%s'. Please try again.", name))
		return
	}
	if name == "" {
		redirectWith(c, "/users/list", "msg", "User has been successfully deleted.")
		return
	}
	redirectWith(c, "/users/list", "msg", fmt.Sprintf("User '%s' has been successfully deleted.", name))
}

// ListLogs 显示最近的日志，支持 ?userId= 和 ?action= 过滤
func (h *Handler) ListLogs(c *gin.Context) {
	ctx := c.Request.Context()
	view := logListView{
		Page:         h.page(c, "Activity Logs"),
		FilterUserID: strings.TrimSpace(c.Query("userId")),
		FilterAction: strings.TrimSpace(c.Query("action")),
	}

	filter := service.LogFilter{Action: view.FilterAction, Limit: logListLimit}
	if view.FilterUserID != "" {
		if id, err := strconv.ParseUint(view.FilterUserID, 10, 64); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}

	logs, total, err := h.logs.SearchLogs(ctx, filter)
	if err != nil {
		h.renderError(c, err)
		return
	}
	names, err := h.userNames(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	view.Items = toLogItems(logs, names.Lookup, h.now())
	view.TotalCount = total
	c.HTML(http.StatusOK, pageLogList, view)
}

// LogDetails 显示单条日志
func (h *Handler) LogDetails(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.logs.GetLogByID(c.Request.Context(), id)
	if err != nil {
		h.handleLookupError(c, err, "/logs", "Log entry not found.")
		return
	}
	names, err := h.userNames(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, pageLogDetails, logDetailsView{
		Page: h.page(c, "Log Details"),
		Log:  toLogItem(entry, names.Lookup(entry.UserID), h.now()),
	})
}

// UserLogs 显示单个用户的全部日志
func (h *Handler) UserLogs(c *gin.Context) {
	userID, ok := h.parseID(c, "userId")
	if !ok {
		return
	}
	names, err := h.userNames(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	name, exists := names[userID]
	if !exists {
		redirectWith(c, "/logs", "err", "User not found.")
		return
	}
	logs, err := h.logs.GetUserLogs(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, pageLogList, logListView{
		Page:         h.page(c, "Activity Log for "+name),
		Items:        toLogItems(logs, func(uint) string { return name }, h.now()),
		FilterUserID: strconv.FormatUint(uint64(userID), 10),
		TotalCount:   int64(len(logs)),
		UserID:       userID,
		UserName:     name,
	})
}

// page 构造布局数据，读取重定向带回的提示消息
func (h *Handler) page(c *gin.Context, title string) Page {
	return Page{Title: title, Message: c.Query("msg"), Error: c.Query("err")}
}

// bindForm 绑定并校验表单，失败时重新渲染表单 (400) 并返回 false
func (h *Handler) bindForm(c *gin.Context, view *userFormView) bool {
	err := c.ShouldBind(&view.Input)
	view.Active = view.Input.Active(false)
	if err != nil {
		view.Errors = dto.FieldErrors(err)
		h.renderForm(c, http.StatusBadRequest, *view, "Please correct the errors below.")
		return false
	}
	return true
}

func (h *Handler) renderForm(c *gin.Context, code int, view userFormView, message string) {
	view.Error = message
	c.HTML(code, pageUserForm, view)
}

// userNames 通过批量读取解析用户名 (不产生 Viewed 日志)
func (h *Handler) userNames(c *gin.Context) (dto.UserNames, error) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return dto.NewUserNames(users), nil
}

func (h *Handler) parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, pageError, errorView{Page: Page{Title: "Not Found"}, Message: "Page not found."})
		return 0, false
	}
	return uint(id), true
}

// handleLookupError: 记录不存在时带着提示重定向，其他错误渲染错误页
func (h *Handler) handleLookupError(c *gin.Context, err error, target, notFound string) {
	if errors.Is(err, service.ErrNotFound) {
		redirectWith(c, target, "err", notFound)
		return
	}
	h.renderError(c, err)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Web: request failed")
	c.HTML(http.StatusInternalServerError, pageError, errorView{
		Page:    Page{Title: "Error"},
		Message: "An unexpected error occurred. Please try again.",
	})
}

// redirectWith 重定向 (303) 并把一条提示消息放在查询串中
func redirectWith(c *gin.Context, target, key, message string) {
	c.Redirect(http.StatusSeeOther, target+"?"+url.Values{key: {message}}.Encode())
}
