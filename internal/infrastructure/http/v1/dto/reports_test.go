package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/domain/analytics"
	"batchledger/internal/domain/catalogs/product"
)

func TestReportRequest_ToQuery_Defaults(t *testing.T) {
	q, err := ReportRequest{}.ToQuery()
	require.NoError(t, err)

	assert.Nil(t, q.Range)
	assert.Equal(t, period.Daily, q.Granularity)
	assert.Equal(t, analytics.SortDesc, q.SortOrder)
	assert.Nil(t, q.ProductID)
	assert.Nil(t, q.Category)
	assert.Nil(t, q.Threshold)
}

func TestReportRequest_ToQuery_AllFields(t *testing.T) {
	pid := id.New()
	threshold := 25

	q, err := ReportRequest{
		From:        "2024-01-01T00:00:00Z",
		To:          "2024-02-01T00:00:00Z",
		Granularity: "Weekly",
		ProductID:   pid.String(),
		Category:    " bread ",
		Limit:       3,
		SortOrder:   "asc",
		Threshold:   &threshold,
	}.ToQuery()
	require.NoError(t, err)

	require.NotNil(t, q.Range)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Range.From)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), q.Range.To)
	assert.Equal(t, period.Weekly, q.Granularity)
	assert.Equal(t, pid, *q.ProductID)
	assert.Equal(t, product.Category("bread"), *q.Category)
	assert.Equal(t, 3, q.Limit)
	assert.Equal(t, analytics.SortAsc, q.SortOrder)
	assert.Equal(t, 25, *q.Threshold)
}

func TestReportRequest_DateOnlyUpperBoundCoversDay(t *testing.T) {
	q, err := ReportRequest{From: "2024-01-01", To: "2024-01-31"}.ToQuery()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Range.From)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), q.Range.To)
	assert.True(t, q.Range.Contains(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
}

func TestReportRequest_ToQuery_Invalid(t *testing.T) {
	tests := []struct {
		name string
		req  ReportRequest
		code string
	}{
		{"only from", ReportRequest{From: "2024-01-01"}, apperror.CodeValidation},
		{"bad date", ReportRequest{From: "01/01/2024", To: "2024-01-02"}, apperror.CodeInvalidInput},
		{"reversed", ReportRequest{From: "2024-02-01", To: "2024-01-01"}, apperror.CodeValidation},
		{"granularity", ReportRequest{Granularity: "hourly"}, apperror.CodeInvalidInput},
		{"sort order", ReportRequest{SortOrder: "sideways"}, apperror.CodeInvalidInput},
		{"product id", ReportRequest{ProductID: "not-a-uuid"}, apperror.CodeInvalidInput},
		{"nil product id", ReportRequest{ProductID: "00000000-0000-0000-0000-000000000000"}, apperror.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToQuery()
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestComparativeReportRequest_DefaultsPreviousPeriod(t *testing.T) {
	req := ComparativeReportRequest{ReportRequest: ReportRequest{
		From: "2024-01-11T00:00:00Z",
		To:   "2024-01-21T00:00:00Z",
	}}

	q, err := req.ToComparativeQuery()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), q.Previous.From)
	assert.Equal(t, time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), q.Previous.To)
}

func TestComparativeReportRequest_ExplicitPrevious(t *testing.T) {
	req := ComparativeReportRequest{
		ReportRequest: ReportRequest{From: "2024-02-01", To: "2024-02-29", Category: "pastry"},
		PreviousFrom:  "2023-02-01",
		PreviousTo:    "2023-02-28",
	}

	q, err := req.ToComparativeQuery()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), q.Current.To)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), q.Previous.From)
	assert.Equal(t, time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), q.Previous.To)
	assert.Equal(t, product.Category("pastry"), *q.Category)
}

func TestComparativeReportRequest_RequiresCurrentRange(t *testing.T) {
	_, err := ComparativeReportRequest{}.ToComparativeQuery()
	assert.True(t, apperror.IsNotFound(err))
}
