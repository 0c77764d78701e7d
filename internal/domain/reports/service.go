package reports

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/period"
	"batchledger/internal/core/tx"
	"batchledger/internal/domain/analytics"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
	"batchledger/internal/domain/inventory"
	"batchledger/internal/domain/ledger"
	"batchledger/internal/domain/registers/stock"
	"batchledger/pkg/logger"
)

var tracer = otel.Tracer("batchledger/reports")

const (
	dashboardTopProducts = 5
	defaultTrendWindow   = 30 * period.Day
)

// Config holds report defaults.
type Config struct {
	LowStockThreshold int
	TopProductsLimit  int
	LookupConcurrency int
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LowStockThreshold: inventory.DefaultLowStockThreshold,
		TopProductsLimit:  10,
		LookupConcurrency: 8,
	}
}

// Sources are the stores the facade reads from.
type Sources struct {
	Sales    sale.Repository
	Batches  batch.Repository
	Products product.Repository
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, for deterministic expiry and dashboard windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service provides report generation operations.
type Service struct {
	sales    sale.Repository
	batches  batch.Repository
	products product.Repository
	txm      tx.ReadOnlyManager
	cfg      Config
	now      func() time.Time
}

// NewService creates a new reports service.
func NewService(src Sources, txm tx.ReadOnlyManager, cfg Config, opts ...Option) *Service {
	defaults := DefaultConfig()
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaults.LowStockThreshold
	}
	if cfg.TopProductsLimit <= 0 {
		cfg.TopProductsLimit = defaults.TopProductsLimit
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = defaults.LookupConcurrency
	}

	s := &Service{
		sales:    src.Sales,
		batches:  src.Batches,
		products: src.Products,
		txm:      txm,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "reports."+name)
}

func salesFilter(q Query) sale.Filter {
	f := sale.Filter{ProductID: q.ProductID}
	if q.Range != nil {
		f.From, f.To = &q.Range.From, &q.Range.To
	}
	return f
}

func rangeFilter(r period.DateRange) sale.Filter {
	return sale.Filter{From: &r.From, To: &r.To}
}

func activeBatches(q Query) *batch.Filter {
	active := true
	return &batch.Filter{Active: &active, ProductID: q.ProductID, Category: q.Category}
}

// GetSales returns sales metrics and a time series.
func (s *Service) GetSales(ctx context.Context, q Query) (*SalesReport, error) {
	ctx, span := s.startSpan(ctx, "sales")
	defer span.End()

	if q.Granularity == "" {
		q.Granularity = period.Daily
	}
	snap, err := s.load(ctx, fetch{sales: []sale.Filter{salesFilter(q)}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	sales := snap.allSales()
	return &SalesReport{
		Summary: SalesSummary{
			Metrics:     analytics.ComputeMetrics(sales, snap.products, q.lineFilter()),
			Granularity: q.Granularity,
		},
		Series: analytics.TimeSeries(sales, snap.products, q.lineFilter(), q.Granularity),
	}, nil
}

// GetSalesByProduct groups sales by product.
func (s *Service) GetSalesByProduct(ctx context.Context, q Query) (*SalesByProductReport, error) {
	ctx, span := s.startSpan(ctx, "sales_by_product")
	defer span.End()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{salesFilter(q)}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	rows := analytics.ByProduct(snap.allSales(), snap.products, q.lineFilter())
	return &SalesByProductReport{Summary: summarizeProducts(rows), Products: rows}, nil
}

// GetSalesByCategory groups sales by product category.
func (s *Service) GetSalesByCategory(ctx context.Context, q Query) (*SalesByCategoryReport, error) {
	ctx, span := s.startSpan(ctx, "sales_by_category")
	defer span.End()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{salesFilter(q)}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	rows := analytics.ByCategory(snap.allSales(), snap.products, q.lineFilter())
	summary := GroupSummary{TotalRows: len(rows)}
	for _, r := range rows {
		summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalRevenue)
		summary.TotalQuantitySold += r.TotalQuantitySold
	}
	return &SalesByCategoryReport{Summary: summary, Categories: rows}, nil
}

// GetTopProducts ranks products by revenue.
func (s *Service) GetTopProducts(ctx context.Context, q Query) (*TopProductsReport, error) {
	ctx, span := s.startSpan(ctx, "top_products")
	defer span.End()

	if q.Limit <= 0 {
		q.Limit = s.cfg.TopProductsLimit
	}
	if q.SortOrder == "" {
		q.SortOrder = analytics.SortDesc
	}

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{salesFilter(q)}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	rows := analytics.TopProducts(snap.allSales(), snap.products, q.lineFilter(), q.Limit, q.SortOrder)
	return &TopProductsReport{
		Summary: TopProductsSummary{
			GroupSummary: summarizeProducts(rows),
			Limit:        q.Limit,
			SortOrder:    q.SortOrder,
		},
		Products: rows,
	}, nil
}

// GetRevenueDistribution reports each category's share of revenue.
func (s *Service) GetRevenueDistribution(ctx context.Context, q Query) (*RevenueDistributionReport, error) {
	ctx, span := s.startSpan(ctx, "revenue_distribution")
	defer span.End()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{salesFilter(q)}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	d := analytics.RevenueDistribution(snap.allSales(), snap.products, q.lineFilter())
	return &RevenueDistributionReport{
		Summary:    DistributionSummary{TotalRevenue: d.TotalRevenue, TotalCategories: len(d.Shares)},
		Categories: d.Shares,
	}, nil
}

// GetBatches returns the batch production report. Range filters batches by
// production date; sold quantities are always lifetime-to-date.
func (s *Service) GetBatches(ctx context.Context, q Query) (*inventory.BatchProductionReport, error) {
	ctx, span := s.startSpan(ctx, "batches")
	defer span.End()

	batchFilter := activeBatches(q)
	if q.Range != nil {
		batchFilter.From, batchFilter.To = &q.Range.From, &q.Range.To
	}
	snap, err := s.load(ctx, fetch{sales: []sale.Filter{{}}, batches: batchFilter, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	report := inventory.BatchProduction(snap.batches, ledger.SoldByBatch(snap.allSales()), snap.products, s.now())
	for _, row := range report.Batches {
		if row.RemainingQuantity < 0 {
			logger.Warn(ctx, "batch over-allocated",
				"batch_id", row.BatchID,
				"batch_number", row.BatchNumber,
				"remaining", row.RemainingQuantity,
			)
		}
	}
	return &report, nil
}

// GetInventory returns gross stock per product.
func (s *Service) GetInventory(ctx context.Context, q Query) (*inventory.CurrentInventoryReport, error) {
	ctx, span := s.startSpan(ctx, "inventory")
	defer span.End()

	threshold := s.cfg.LowStockThreshold
	if q.Threshold != nil {
		threshold = *q.Threshold
	}

	snap, err := s.load(ctx, fetch{batches: activeBatches(q), product: q.ProductID})
	if err != nil {
		return nil, err
	}

	report := inventory.CurrentInventory(snap.batches, snap.products, threshold)
	return &report, nil
}

// GetAging returns batches with unsold stock, most urgent first.
func (s *Service) GetAging(ctx context.Context, q Query) (*inventory.AgingReport, error) {
	ctx, span := s.startSpan(ctx, "aging")
	defer span.End()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{{}}, batches: activeBatches(q), product: q.ProductID})
	if err != nil {
		return nil, err
	}

	report := inventory.Aging(snap.batches, ledger.SoldByBatch(snap.allSales()), snap.products, s.now())
	return &report, nil
}

// GetStockMovement returns the bucketed production/sales ledger. A date
// range is required.
func (s *Service) GetStockMovement(ctx context.Context, q Query) (*StockMovementReport, error) {
	ctx, span := s.startSpan(ctx, "stock_movement")
	defer span.End()

	if q.Range == nil {
		return nil, apperror.NewMissingDateRange("stock-movement")
	}
	if q.Granularity == "" {
		q.Granularity = period.Daily
	}

	snap, err := s.load(ctx, fetch{
		sales:   []sale.Filter{salesFilter(q)},
		batches: &batch.Filter{From: &q.Range.From, To: &q.Range.To, ProductID: q.ProductID},
		product: q.ProductID,
	})
	if err != nil {
		return nil, err
	}

	movements := stock.Reconcile(snap.batches, snap.allSales(), q.Granularity, q.ProductID)
	return &StockMovementReport{
		Summary: StockMovementSummary{
			Turnover:    stock.Totals(movements),
			Granularity: q.Granularity,
			Window:      windowOf(*q.Range),
		},
		Movements: movements,
	}, nil
}

// GetTrends compares a period with the equal-length period before it.
// Without a range the last 30 days are used.
func (s *Service) GetTrends(ctx context.Context, q Query) (*TrendsReport, error) {
	ctx, span := s.startSpan(ctx, "trends")
	defer span.End()

	current := period.DateRange{From: s.now().Add(-defaultTrendWindow), To: s.now()}
	if q.Range != nil {
		current = *q.Range
	}
	previous := current.Previous()
	if q.Granularity == "" {
		q.Granularity = period.Daily
	}

	snap, err := s.load(ctx, fetch{
		sales: []sale.Filter{
			{From: &previous.From, To: &current.To, ProductID: q.ProductID},
		},
		product: q.ProductID,
	})
	if err != nil {
		return nil, err
	}

	cur, prev := splitByRange(snap.allSales(), current, previous)
	filter := q.lineFilter()
	return &TrendsReport{
		Summary: analytics.Compare(
			analytics.ComputeMetrics(cur, snap.products, filter),
			analytics.ComputeMetrics(prev, snap.products, filter),
		),
		Current:  windowOf(current),
		Previous: windowOf(previous),
		Series:   analytics.TimeSeries(cur, snap.products, filter, q.Granularity),
	}, nil
}

// GetComparative compares two explicit periods.
func (s *Service) GetComparative(ctx context.Context, q ComparativeQuery) (*ComparativeReport, error) {
	ctx, span := s.startSpan(ctx, "comparative")
	defer span.End()

	currentFilter := rangeFilter(q.Current)
	currentFilter.ProductID = q.ProductID
	previousFilter := rangeFilter(q.Previous)
	previousFilter.ProductID = q.ProductID

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{currentFilter, previousFilter}, product: q.ProductID})
	if err != nil {
		return nil, err
	}

	filter := analytics.LineFilter{ProductID: q.ProductID, Category: q.Category}
	current := analytics.ComputeMetrics(snap.sales[0], snap.products, filter)
	previous := analytics.ComputeMetrics(snap.sales[1], snap.products, filter)

	return &ComparativeReport{
		Summary: analytics.Compare(current, previous),
		Periods: []PeriodMetrics{
			{Label: "current", Window: windowOf(q.Current), Metrics: current},
			{Label: "previous", Window: windowOf(q.Previous), Metrics: previous},
		},
	}, nil
}

// GetDashboard summarizes month-to-date sales against the equal-length
// period before it, current inventory, aging and ledger health.
func (s *Service) GetDashboard(ctx context.Context) (*DashboardReport, error) {
	ctx, span := s.startSpan(ctx, "dashboard")
	defer span.End()

	now := s.now()
	current := period.MonthToDate(now)
	previous := current.Previous()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{{}}, batches: &batch.Filter{}})
	if err != nil {
		return nil, err
	}

	all := snap.allSales()
	cur, prev := splitByRange(all, current, previous)
	sold := ledger.SoldByBatch(all)
	currentMetrics := analytics.ComputeMetrics(cur, snap.products, analytics.LineFilter{})

	return &DashboardReport{
		Summary: DashboardSummary{
			GeneratedAt: now,
			Window:      windowOf(current),
			Sales:       currentMetrics,
			Trend: analytics.Compare(currentMetrics,
				analytics.ComputeMetrics(prev, snap.products, analytics.LineFilter{})),
			Inventory:       inventory.CurrentInventory(snap.batches, snap.products, s.cfg.LowStockThreshold).Summary,
			Aging:           inventory.Aging(snap.batches, sold, snap.products, now).Summary,
			IntegrityIssues: len(warnIntegrity(ctx, snap.batches, all)),
		},
		TopProducts: analytics.TopProducts(cur, snap.products, analytics.LineFilter{}, dashboardTopProducts, analytics.SortDesc),
	}, nil
}

// GetIntegrity scans every non-deleted batch and paid sale for ledger
// inconsistencies.
func (s *Service) GetIntegrity(ctx context.Context) (*IntegrityReport, error) {
	ctx, span := s.startSpan(ctx, "integrity")
	defer span.End()

	snap, err := s.load(ctx, fetch{sales: []sale.Filter{{}}, batches: &batch.Filter{}})
	if err != nil {
		return nil, err
	}

	sales := snap.allSales()
	issues := warnIntegrity(ctx, snap.batches, sales)
	if issues == nil {
		issues = []ledger.Issue{}
	}
	return &IntegrityReport{
		Summary: IntegritySummary{
			TotalIssues: len(issues),
			ByKind:      ledger.Summary(issues),
			Batches:     len(snap.batches),
			Sales:       len(sales),
		},
		Issues: issues,
	}, nil
}

func summarizeProducts(rows []analytics.ProductRow) GroupSummary {
	summary := GroupSummary{TotalRows: len(rows)}
	for _, r := range rows {
		summary.TotalRevenue = summary.TotalRevenue.Add(r.TotalRevenue)
		summary.TotalQuantitySold += r.TotalQuantitySold
	}
	return summary
}

// splitByRange partitions sales by createdAt into the two half-open ranges.
// Sales in neither range are dropped.
func splitByRange(sales []*sale.Sale, current, previous period.DateRange) (cur, prev []*sale.Sale) {
	for _, s := range sales {
		switch {
		case current.Contains(s.CreatedAt):
			cur = append(cur, s)
		case previous.Contains(s.CreatedAt):
			prev = append(prev, s)
		}
	}
	return cur, prev
}
