package api

import (
	"github.com/gin-gonic/gin"

	"github.com/siber-nasional/cve-dashboard/internal/telemetry"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics *telemetry.Metrics) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthCheck)

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/overview", handler.Overview)
			dashboard.GET("/detail", handler.Detail)
			dashboard.GET("/export", handler.Export)
		}
	}
}
