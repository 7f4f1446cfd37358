package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"aptview/server/internal/aggregate"
)

func SetupRoutes(router *gin.Engine, service *aggregate.Service, logger *logrus.Logger) {
	handler := NewHandler(service, logger)

	api := router.Group("/api")
	{
		api.GET("/complex/search", handler.SearchComplexes)
		api.GET("/complex", handler.GetComplexes)
		api.GET("/complex/:id", handler.GetComplexByID)
		api.GET("/complex/:id/types", handler.GetComplexTypes)
		api.GET("/complex/:id/summary", handler.GetComplexSummary)
		api.GET("/complex/:id/statistics", handler.GetComplexStatistics)
		api.GET("/regions", handler.ListRegions)
		api.GET("/region/:gugun/boundary", handler.GetDistrictBoundary)
	}
}
