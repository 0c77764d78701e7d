package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"batchledger/internal/domain/inventory"
	"batchledger/internal/domain/reports"
	"batchledger/internal/infrastructure/http/v1/dto"
)

// ReportService is the facade behind the report endpoints.
// *reports.Service implements it.
type ReportService interface {
	GetSales(ctx context.Context, q reports.Query) (*reports.SalesReport, error)
	GetSalesByProduct(ctx context.Context, q reports.Query) (*reports.SalesByProductReport, error)
	GetSalesByCategory(ctx context.Context, q reports.Query) (*reports.SalesByCategoryReport, error)
	GetTopProducts(ctx context.Context, q reports.Query) (*reports.TopProductsReport, error)
	GetRevenueDistribution(ctx context.Context, q reports.Query) (*reports.RevenueDistributionReport, error)
	GetBatches(ctx context.Context, q reports.Query) (*inventory.BatchProductionReport, error)
	GetInventory(ctx context.Context, q reports.Query) (*inventory.CurrentInventoryReport, error)
	GetAging(ctx context.Context, q reports.Query) (*inventory.AgingReport, error)
	GetStockMovement(ctx context.Context, q reports.Query) (*reports.StockMovementReport, error)
	GetTrends(ctx context.Context, q reports.Query) (*reports.TrendsReport, error)
	GetComparative(ctx context.Context, q reports.ComparativeQuery) (*reports.ComparativeReport, error)
	GetDashboard(ctx context.Context) (*reports.DashboardReport, error)
	GetIntegrity(ctx context.Context) (*reports.IntegrityReport, error)
}

var _ ReportService = (*reports.Service)(nil)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// query binds the shared report parameters. It writes the error and
// returns false when the request is malformed.
func (h *ReportsHandler) query(c *gin.Context) (reports.Query, bool) {
	var req dto.ReportRequest
	if !h.BindQuery(c, &req) {
		return reports.Query{}, false
	}
	q, err := req.ToQuery()
	if err != nil {
		h.Error(c, err)
		return reports.Query{}, false
	}
	return q, true
}

// serve runs a Query-driven report and writes its payload.
func serve[T any](h *ReportsHandler, c *gin.Context, get func(context.Context, reports.Query) (*T, error)) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	report, err := get(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetSales handles GET /reports/sales
func (h *ReportsHandler) GetSales(c *gin.Context) {
	serve(h, c, h.service.GetSales)
}

// GetSalesByProduct handles GET /reports/sales-by-product
func (h *ReportsHandler) GetSalesByProduct(c *gin.Context) {
	serve(h, c, h.service.GetSalesByProduct)
}

// GetSalesByCategory handles GET /reports/sales-by-category
func (h *ReportsHandler) GetSalesByCategory(c *gin.Context) {
	serve(h, c, h.service.GetSalesByCategory)
}

// GetTopProducts handles GET /reports/top-products
func (h *ReportsHandler) GetTopProducts(c *gin.Context) {
	serve(h, c, h.service.GetTopProducts)
}

// GetRevenueDistribution handles GET /reports/revenue-distribution
func (h *ReportsHandler) GetRevenueDistribution(c *gin.Context) {
	serve(h, c, h.service.GetRevenueDistribution)
}

// GetBatches handles GET /reports/batches
func (h *ReportsHandler) GetBatches(c *gin.Context) {
	serve(h, c, h.service.GetBatches)
}

// GetInventory handles GET /reports/inventory
func (h *ReportsHandler) GetInventory(c *gin.Context) {
	serve(h, c, h.service.GetInventory)
}

// GetAging handles GET /reports/aging
func (h *ReportsHandler) GetAging(c *gin.Context) {
	serve(h, c, h.service.GetAging)
}

// GetStockMovement handles GET /reports/stock-movement
func (h *ReportsHandler) GetStockMovement(c *gin.Context) {
	serve(h, c, h.service.GetStockMovement)
}

// GetTrends handles GET /reports/trends
func (h *ReportsHandler) GetTrends(c *gin.Context) {
	serve(h, c, h.service.GetTrends)
}

// GetComparative handles GET /reports/comparative
func (h *ReportsHandler) GetComparative(c *gin.Context) {
	var req dto.ComparativeReportRequest
	if !h.BindQuery(c, &req) {
		return
	}
	q, err := req.ToComparativeQuery()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetComparative(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetDashboard handles GET /reports/dashboard
func (h *ReportsHandler) GetDashboard(c *gin.Context) {
	report, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}

// GetIntegrity handles GET /reports/integrity
func (h *ReportsHandler) GetIntegrity(c *gin.Context) {
	report, err := h.service.GetIntegrity(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, report)
}
