package http

import (
	"github.com/gin-gonic/gin"

	"github.com/sj140497/SJ-InfloTechTest/internal/dto"
)

// ErrorResponse 以 {"message": ...} 的形式返回错误
func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, dto.ErrorDTO{Message: message})
}

// ValidationErrorResponse 返回 400 以及逐条的字段错误
func ValidationErrorResponse(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, dto.ErrorDTO{
		Message: "Validation failed",
		Errors:  dto.ValidationMessages(err),
	})
}

func SuccessResponse(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
