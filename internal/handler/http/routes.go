package http

import "github.com/gin-gonic/gin"

// RegisterRoutes 在 /api 分组下注册 JSON API 路由
func RegisterRoutes(api *gin.RouterGroup, users *UserHandler, logs *LogHandler) {
	userRoutes := api.Group("/users")
	{
		userRoutes.GET("", users.ListUsers)
		userRoutes.POST("", users.CreateUser)
		userRoutes.GET("/:id", users.GetUser)
		userRoutes.PUT("/:id", users.UpdateUser)
		userRoutes.DELETE("/:id", users.DeleteUser)
	}
	logRoutes := api.Group("/logs")
	{
		logRoutes.GET("", logs.ListLogs)
		logRoutes.GET("/:id", logs.GetLog)
		logRoutes.GET("/user/:userId", logs.GetUserLogs)
	}
}
