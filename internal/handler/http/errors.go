package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sj140497/SJ-InfloTechTest/internal/service"
)

// HandleServiceError 把服务层错误映射为 HTTP 状态码。
// fallback 是存储失败等内部错误时返回给客户端的通用消息。
func HandleServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, service.Message(err, "Not found"))
	case errors.Is(err, service.ErrEmailInUse):
		ErrorResponse(c, http.StatusConflict, service.Message(err, "Email address is already in use"))
	default:
		// 内部错误只记录日志，不把细节返回给客户端
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}
