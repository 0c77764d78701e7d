package v1

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/analytics"
	"batchledger/internal/domain/inventory"
	"batchledger/internal/domain/reports"
	"batchledger/internal/infrastructure/storage/postgres"
	"batchledger/pkg/logger"
)

type stubDB struct {
	pingErr error
}

func (d stubDB) Ping(context.Context) error { return d.pingErr }

func (d stubDB) Stats() postgres.PoolStats { return postgres.PoolStats{MaxConns: 25, IdleConns: 3} }

// stubReports records the last query and returns canned payloads.
type stubReports struct {
	err         error
	panicOn     string
	query       reports.Query
	comparative reports.ComparativeQuery
}

func (s *stubReports) record(name string, q reports.Query) error {
	if s.panicOn == name {
		panic("boom")
	}
	s.query = q
	return s.err
}

func (s *stubReports) GetSales(_ context.Context, q reports.Query) (*reports.SalesReport, error) {
	if err := s.record("sales", q); err != nil {
		return nil, err
	}
	return &reports.SalesReport{
		Summary: reports.SalesSummary{
			Metrics:     analytics.Metrics{TotalRevenue: types.MoneyFromInt(500), TotalSales: 2},
			Granularity: q.Granularity,
		},
		Series: []analytics.SeriesPoint{},
	}, nil
}

func (s *stubReports) GetSalesByProduct(_ context.Context, q reports.Query) (*reports.SalesByProductReport, error) {
	return &reports.SalesByProductReport{Products: []analytics.ProductRow{}}, s.record("sales-by-product", q)
}

func (s *stubReports) GetSalesByCategory(_ context.Context, q reports.Query) (*reports.SalesByCategoryReport, error) {
	return &reports.SalesByCategoryReport{Categories: []analytics.CategoryRow{}}, s.record("sales-by-category", q)
}

func (s *stubReports) GetTopProducts(_ context.Context, q reports.Query) (*reports.TopProductsReport, error) {
	return &reports.TopProductsReport{Products: []analytics.ProductRow{}}, s.record("top-products", q)
}

func (s *stubReports) GetRevenueDistribution(_ context.Context, q reports.Query) (*reports.RevenueDistributionReport, error) {
	return &reports.RevenueDistributionReport{Categories: []analytics.Share{}}, s.record("revenue-distribution", q)
}

func (s *stubReports) GetBatches(_ context.Context, q reports.Query) (*inventory.BatchProductionReport, error) {
	return &inventory.BatchProductionReport{Batches: []inventory.BatchRow{}}, s.record("batches", q)
}

func (s *stubReports) GetInventory(_ context.Context, q reports.Query) (*inventory.CurrentInventoryReport, error) {
	return &inventory.CurrentInventoryReport{Products: []inventory.ProductStock{}}, s.record("inventory", q)
}

func (s *stubReports) GetAging(_ context.Context, q reports.Query) (*inventory.AgingReport, error) {
	return &inventory.AgingReport{Batches: []inventory.AgingRow{}}, s.record("aging", q)
}

func (s *stubReports) GetStockMovement(_ context.Context, q reports.Query) (*reports.StockMovementReport, error) {
	if err := s.record("stock-movement", q); err != nil {
		return nil, err
	}
	if q.Range == nil {
		return nil, apperror.NewMissingDateRange("stock-movement")
	}
	return &reports.StockMovementReport{}, nil
}

func (s *stubReports) GetTrends(_ context.Context, q reports.Query) (*reports.TrendsReport, error) {
	return &reports.TrendsReport{}, s.record("trends", q)
}

func (s *stubReports) GetComparative(_ context.Context, q reports.ComparativeQuery) (*reports.ComparativeReport, error) {
	s.comparative = q
	return &reports.ComparativeReport{Periods: []reports.PeriodMetrics{}}, s.err
}

func (s *stubReports) GetDashboard(context.Context) (*reports.DashboardReport, error) {
	return &reports.DashboardReport{}, s.record("dashboard", reports.Query{})
}

func (s *stubReports) GetIntegrity(context.Context) (*reports.IntegrityReport, error) {
	return &reports.IntegrityReport{}, s.record("integrity", reports.Query{})
}

func newTestRouter(svc *stubReports, db stubDB) http.Handler {
	return NewRouter(RouterConfig{Logger: logger.Nop(), Database: db, Reports: svc})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter_EveryReportRouteIsRegistered(t *testing.T) {
	h := newTestRouter(&stubReports{}, stubDB{})

	for _, name := range []string{
		"sales", "sales-by-product", "sales-by-category", "top-products",
		"revenue-distribution", "batches", "inventory", "aging", "trends",
		"comparative?from=2024-01-01&to=2024-01-31", "dashboard", "integrity",
		"stock-movement?from=2024-01-01&to=2024-01-31",
	} {
		t.Run(name, func(t *testing.T) {
			rec := get(t, h, "/api/v1/reports/"+name)
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_SalesPassesParsedQuery(t *testing.T) {
	svc := &stubReports{}
	h := newTestRouter(svc, stubDB{})
	pid := id.New()

	rec := get(t, h, "/api/v1/reports/sales?from=2024-01-01&to=2024-01-02&granularity=monthly&productId="+pid.String())
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.query.Range)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), svc.query.Range.To)
	assert.Equal(t, period.Monthly, svc.query.Granularity)
	assert.Equal(t, pid, *svc.query.ProductID)

	body := decode(t, rec)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "500", summary["totalRevenue"])
	assert.Equal(t, "monthly", summary["granularity"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_TopProductsLimitAndOrder(t *testing.T) {
	svc := &stubReports{}
	h := newTestRouter(svc, stubDB{})

	rec := get(t, h, "/api/v1/reports/top-products?limit=3&sortOrder=asc&threshold=7")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, svc.query.Limit)
	assert.Equal(t, analytics.SortAsc, svc.query.SortOrder)
	assert.Equal(t, 7, *svc.query.Threshold)
}

func TestRouter_InvalidParameters(t *testing.T) {
	h := newTestRouter(&stubReports{}, stubDB{})

	tests := []struct {
		target string
		code   string
	}{
		{"/api/v1/reports/sales?granularity=hourly", apperror.CodeInvalidInput},
		{"/api/v1/reports/sales?from=2024-01-01", apperror.CodeValidation},
		{"/api/v1/reports/top-products?limit=abc", apperror.CodeValidation},
		{"/api/v1/reports/top-products?limit=-1", apperror.CodeValidation},
		{"/api/v1/reports/inventory?productId=xyz", apperror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode(t, rec)["code"])
		})
	}
}

func TestRouter_StockMovementWithoutRangeIsNotFound(t *testing.T) {
	h := newTestRouter(&stubReports{}, stubDB{})

	rec := get(t, h, "/api/v1/reports/stock-movement")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, rec)["code"])
}

func TestRouter_ComparativeDefaultsPrevious(t *testing.T) {
	svc := &stubReports{}
	h := newTestRouter(svc, stubDB{})

	rec := get(t, h, "/api/v1/reports/comparative?from=2024-02-01T00:00:00Z&to=2024-02-11T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), svc.comparative.Previous.From)

	rec = get(t, h, "/api/v1/reports/comparative")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ServiceErrorsAreRendered(t *testing.T) {
	svc := &stubReports{err: apperror.NewDatabase("find sales", errors.New("connection reset"))}
	h := newTestRouter(svc, stubDB{})

	rec := get(t, h, "/api/v1/reports/dashboard")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, apperror.CodeDatabase, body["code"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestRouter_UnknownErrorIsHidden(t *testing.T) {
	svc := &stubReports{err: errors.New("secret detail")}
	h := newTestRouter(svc, stubDB{})

	rec := get(t, h, "/api/v1/reports/integrity")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, rec)["code"])
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestRouter_PanicIsRecovered(t *testing.T) {
	h := newTestRouter(&stubReports{panicOn: "aging"}, stubDB{})

	rec := get(t, h, "/api/v1/reports/aging")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, rec)["code"])
}

func TestRouter_HealthProbes(t *testing.T) {
	h := newTestRouter(&stubReports{}, stubDB{})

	rec := get(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["checks"].(map[string]any)["database"])

	rec = get(t, h, "/health/info")
	require.Equal(t, http.StatusOK, rec.Code)
	db := decode(t, rec)["database"].(map[string]any)
	assert.EqualValues(t, 25, db["maxConns"])

	down := newTestRouter(&stubReports{}, stubDB{pingErr: errors.New("refused")})
	rec = get(t, down, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", decode(t, rec)["status"])
}

func TestNewHandler_Gzip(t *testing.T) {
	h := NewHandler(RouterConfig{Logger: logger.Nop(), Database: stubDB{}, Reports: &stubReports{}, Gzip: true})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?granularity=daily", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	if rec.Header().Get("Content-Encoding") != "gzip" {
		// Bodies under the gzhttp minimum size are sent uncompressed.
		assert.Contains(t, rec.Body.String(), "totalRevenue")
		return
	}

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "totalRevenue")
}
