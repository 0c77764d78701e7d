package dto

import (
	"strings"
	"time"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/domain/analytics"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/reports"
)

// dateOnly is the short form accepted for from/to parameters.
const dateOnly = "2006-01-02"

// ReportRequest represents the query string shared by every report endpoint.
type ReportRequest struct {
	From        string `form:"from"`
	To          string `form:"to"`
	Granularity string `form:"granularity"`
	ProductID   string `form:"productId"`
	Category    string `form:"category"`
	Limit       int    `form:"limit" binding:"min=0"`
	SortOrder   string `form:"sortOrder"`
	Threshold   *int   `form:"threshold" binding:"omitempty,min=0"`
}

// ComparativeReportRequest adds the explicit previous period.
// When previousFrom/previousTo are omitted the equal-length period
// immediately before [from, to) is used.
type ComparativeReportRequest struct {
	ReportRequest
	PreviousFrom string `form:"previousFrom"`
	PreviousTo   string `form:"previousTo"`
}

// ToQuery converts the request into a reports.Query.
func (r ReportRequest) ToQuery() (reports.Query, error) {
	var q reports.Query

	rng, err := parseRange("from", r.From, "to", r.To)
	if err != nil {
		return q, err
	}
	q.Range = rng

	if q.Granularity, err = period.ParseGranularity(r.Granularity); err != nil {
		return q, err
	}
	if q.SortOrder, err = analytics.ParseSortOrder(r.SortOrder); err != nil {
		return q, err
	}
	if q.ProductID, err = parseProductID(r.ProductID); err != nil {
		return q, err
	}
	q.Category = parseCategory(r.Category)
	q.Limit = r.Limit
	q.Threshold = r.Threshold
	return q, nil
}

// ToComparativeQuery converts the request into a reports.ComparativeQuery.
func (r ComparativeReportRequest) ToComparativeQuery() (reports.ComparativeQuery, error) {
	var q reports.ComparativeQuery

	current, err := parseRange("from", r.From, "to", r.To)
	if err != nil {
		return q, err
	}
	if current == nil {
		return q, apperror.NewMissingDateRange("comparative")
	}
	q.Current = *current

	previous, err := parseRange("previousFrom", r.PreviousFrom, "previousTo", r.PreviousTo)
	if err != nil {
		return q, err
	}
	if previous != nil {
		q.Previous = *previous
	} else {
		q.Previous = current.Previous()
	}

	if q.ProductID, err = parseProductID(r.ProductID); err != nil {
		return q, err
	}
	q.Category = parseCategory(r.Category)
	return q, nil
}

// parseRange returns nil when both bounds are empty. A date-only upper
// bound covers the whole named day.
func parseRange(fromKey, from, toKey, to string) (*period.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, apperror.NewValidation(fromKey + " and " + toKey + " must be given together")
	}

	start, _, err := parseTime(fromKey, from)
	if err != nil {
		return nil, err
	}
	end, short, err := parseTime(toKey, to)
	if err != nil {
		return nil, err
	}
	if short {
		end = end.AddDate(0, 0, 1)
	}

	rng, err := period.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return &rng, nil
}

// parseTime accepts RFC3339 or YYYY-MM-DD (UTC midnight).
func parseTime(key, value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, false, apperror.NewInvalidInput(key, "expected RFC3339 timestamp or YYYY-MM-DD date").
			WithDetail("value", value)
	}
	return t, true, nil
}

func parseProductID(s string) (*id.ID, error) {
	if s == "" {
		return nil, nil
	}
	pid, err := id.Parse(s)
	if err != nil || id.IsNil(pid) {
		return nil, apperror.NewInvalidInput("productId", "invalid product id").WithDetail("value", s)
	}
	return &pid, nil
}

func parseCategory(s string) *product.Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	c := product.Category(s)
	return &c
}
