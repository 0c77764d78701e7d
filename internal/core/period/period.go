// Package period provides time bucketing shared by every time-based report:
// granularities, date keys, half-open date ranges and previous-period math.
package period

import (
	"fmt"
	"math"
	"strings"
	"time"

	"batchledger/internal/core/apperror"
)

// Granularity is the size of a time bucket.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Day is the length used for expiry arithmetic.
const Day = 24 * time.Hour

// ParseGranularity accepts the four granularities case-insensitively.
// An empty string defaults to Daily.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	default:
		return "", apperror.NewInvalidInput("granularity",
			fmt.Sprintf("unknown granularity %q, expected daily, weekly, monthly or yearly", s))
	}
}

// DateKey returns the bucket key of t. Keys are zero-padded so that string
// order equals chronological order:
//
//	daily   2024-01-15
//	weekly  2024-01-14 (the Sunday starting the week)
//	monthly 2024-01
//	yearly  2024
//
// The calendar date is taken in t's own location.
func DateKey(t time.Time, g Granularity) string {
	switch g {
	case Weekly:
		return WeekStart(t).Format("2006-01-02")
	case Monthly:
		return t.Format("2006-01")
	case Yearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// WeekStart returns midnight of the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// CeilDays returns ceil((to-from)/24h). Negative when to is before from.
func CeilDays(from, to time.Time) int {
	return int(math.Ceil(float64(to.Sub(from)) / float64(Day)))
}

// DateRange is a half-open interval [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange validates that from is before to.
func NewDateRange(from, to time.Time) (DateRange, error) {
	if from.IsZero() || to.IsZero() {
		return DateRange{}, apperror.NewValidation("from and to are required")
	}
	if !from.Before(to) {
		return DateRange{}, apperror.NewValidation("from must be before to").
			WithDetail("from", from).
			WithDetail("to", to)
	}
	return DateRange{From: from, To: to}, nil
}

// Length returns To - From.
func (r DateRange) Length() time.Duration {
	return r.To.Sub(r.From)
}

// Contains reports whether t is inside [From, To).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// Previous returns the equal-length period immediately preceding r:
// [From - Length, From).
func (r DateRange) Previous() DateRange {
	return DateRange{From: r.From.Add(-r.Length()), To: r.From}
}

// String renders the range for logs.
func (r DateRange) String() string {
	return r.From.Format(time.RFC3339) + "/" + r.To.Format(time.RFC3339)
}

// MonthToDate returns [first day of now's month, now).
func MonthToDate(now time.Time) DateRange {
	y, m, _ := now.Date()
	return DateRange{From: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), To: now}
}
