// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// ReportRouteHandler defines the endpoints of the reports API.
type ReportRouteHandler interface {
	GetSales(c *gin.Context)
	GetSalesByProduct(c *gin.Context)
	GetSalesByCategory(c *gin.Context)
	GetTopProducts(c *gin.Context)
	GetRevenueDistribution(c *gin.Context)
	GetBatches(c *gin.Context)
	GetInventory(c *gin.Context)
	GetAging(c *gin.Context)
	GetStockMovement(c *gin.Context)
	GetTrends(c *gin.Context)
	GetComparative(c *gin.Context)
	GetDashboard(c *gin.Context)
	GetIntegrity(c *gin.Context)
}

// HealthRouteHandler defines the probe endpoints.
type HealthRouteHandler interface {
	Live(c *gin.Context)
	Ready(c *gin.Context)
	Info(c *gin.Context)
}

// RegisterReportRoutes registers every report under the given group.
func RegisterReportRoutes(group *gin.RouterGroup, h ReportRouteHandler) {
	group.GET("/sales", h.GetSales)
	group.GET("/sales-by-product", h.GetSalesByProduct)
	group.GET("/sales-by-category", h.GetSalesByCategory)
	group.GET("/top-products", h.GetTopProducts)
	group.GET("/revenue-distribution", h.GetRevenueDistribution)
	group.GET("/batches", h.GetBatches)
	group.GET("/inventory", h.GetInventory)
	group.GET("/aging", h.GetAging)
	group.GET("/stock-movement", h.GetStockMovement)
	group.GET("/trends", h.GetTrends)
	group.GET("/comparative", h.GetComparative)
	group.GET("/dashboard", h.GetDashboard)
	group.GET("/integrity", h.GetIntegrity)
}

// RegisterHealthRoutes registers liveness, readiness and info probes.
func RegisterHealthRoutes(group *gin.RouterGroup, h HealthRouteHandler) {
	group.GET("/live", h.Live)
	group.GET("/ready", h.Ready)
	group.GET("/info", h.Info)
}
