// Package reports composes the ledger, inventory, analytics and stock
// engines into named report payloads. Every report has the shape
// {summary, <rows>}.
package reports

import (
	"time"

	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/analytics"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/inventory"
	"batchledger/internal/domain/ledger"
	"batchledger/internal/domain/registers/stock"
)

// Query carries the common report parameters. Zero values pick defaults.
type Query struct {
	// Range is the half-open [From, To) window; nil means unbounded.
	Range *period.DateRange

	Granularity period.Granularity
	ProductID   *id.ID
	Category    *product.Category

	// Limit and SortOrder apply to top products.
	Limit     int
	SortOrder analytics.SortOrder

	// Threshold overrides the low-stock threshold.
	Threshold *int
}

func (q Query) lineFilter() analytics.LineFilter {
	return analytics.LineFilter{ProductID: q.ProductID, Category: q.Category}
}

// ComparativeQuery compares two explicit periods.
type ComparativeQuery struct {
	Current   period.DateRange
	Previous  period.DateRange
	ProductID *id.ID
	Category  *product.Category
}

// Window is a date range as rendered in report payloads.
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func windowOf(r period.DateRange) Window {
	return Window{From: r.From, To: r.To}
}

// --- Sales ---

// SalesSummary is the headline of the sales report.
type SalesSummary struct {
	analytics.Metrics
	Granularity period.Granularity `json:"granularity"`
}

// SalesReport is total metrics plus a time series.
type SalesReport struct {
	Summary SalesSummary            `json:"summary"`
	Series  []analytics.SeriesPoint `json:"series"`
}

// GroupSummary totals a grouped report.
type GroupSummary struct {
	TotalRows         int         `json:"totalRows"`
	TotalRevenue      types.Money `json:"totalRevenue"`
	TotalQuantitySold int         `json:"totalQuantitySold"`
}

// SalesByProductReport groups sales by product.
type SalesByProductReport struct {
	Summary  GroupSummary           `json:"summary"`
	Products []analytics.ProductRow `json:"products"`
}

// SalesByCategoryReport groups sales by category.
type SalesByCategoryReport struct {
	Summary    GroupSummary            `json:"summary"`
	Categories []analytics.CategoryRow `json:"categories"`
}

// TopProductsSummary describes the ranking applied.
type TopProductsSummary struct {
	GroupSummary
	Limit     int                 `json:"limit"`
	SortOrder analytics.SortOrder `json:"sortOrder"`
}

// TopProductsReport is the ranked product list.
type TopProductsReport struct {
	Summary  TopProductsSummary     `json:"summary"`
	Products []analytics.ProductRow `json:"products"`
}

// DistributionSummary totals the revenue distribution.
type DistributionSummary struct {
	TotalRevenue    types.Money `json:"totalRevenue"`
	TotalCategories int         `json:"totalCategories"`
}

// RevenueDistributionReport is each category's revenue share.
type RevenueDistributionReport struct {
	Summary    DistributionSummary `json:"summary"`
	Categories []analytics.Share   `json:"categories"`
}

// --- Stock ---

// StockMovementSummary totals the movement ledger.
type StockMovementSummary struct {
	stock.Turnover
	Granularity period.Granularity `json:"granularity"`
	Window      Window             `json:"window"`
}

// StockMovementReport is the bucketed production/sales ledger.
type StockMovementReport struct {
	Summary   StockMovementSummary `json:"summary"`
	Movements []stock.Movement     `json:"movements"`
}

// --- Trends ---

// TrendsReport compares a period with the equal-length period before it.
type TrendsReport struct {
	Summary  analytics.Comparison    `json:"summary"`
	Current  Window                  `json:"current"`
	Previous Window                  `json:"previous"`
	Series   []analytics.SeriesPoint `json:"series"`
}

// PeriodMetrics is one side of a comparison.
type PeriodMetrics struct {
	Label   string            `json:"label"`
	Window  Window            `json:"window"`
	Metrics analytics.Metrics `json:"metrics"`
}

// ComparativeReport compares two caller-chosen periods.
type ComparativeReport struct {
	Summary analytics.Comparison `json:"summary"`
	Periods []PeriodMetrics      `json:"periods"`
}

// --- Dashboard ---

// DashboardSummary is the month-to-date overview.
type DashboardSummary struct {
	GeneratedAt     time.Time                  `json:"generatedAt"`
	Window          Window                     `json:"window"`
	Sales           analytics.Metrics          `json:"sales"`
	Trend           analytics.Comparison       `json:"trend"`
	Inventory       inventory.InventorySummary `json:"inventory"`
	Aging           inventory.AgingSummary     `json:"aging"`
	IntegrityIssues int                        `json:"integrityIssues"`
}

// DashboardReport is the landing page summary with the month's top products.
type DashboardReport struct {
	Summary     DashboardSummary       `json:"summary"`
	TopProducts []analytics.ProductRow `json:"topProducts"`
}

// --- Integrity ---

// IntegritySummary counts findings.
type IntegritySummary struct {
	TotalIssues int                      `json:"totalIssues"`
	ByKind      map[ledger.IssueKind]int `json:"byKind"`
	Batches     int                      `json:"batchesScanned"`
	Sales       int                      `json:"salesScanned"`
}

// IntegrityReport lists ledger inconsistencies.
type IntegrityReport struct {
	Summary IntegritySummary `json:"summary"`
	Issues  []ledger.Issue   `json:"issues"`
}
