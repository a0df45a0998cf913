package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mzapi/docs"
	"mzapi/internal/handler"
	"mzapi/internal/server/middleware"
)

// newAdminEngine 管理端口：指标、健康检查与接口文档，不经过网关中间件链
func newAdminEngine(health *handler.HealthHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.Recovery())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/health", health.Health)
	engine.GET("/ready", health.Ready)

	// Swagger 文档
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return engine
}
