package analytics

import (
	"batchledger/internal/core/types"
)

// Comparison holds period-over-period growth for each metric.
// A growth percentage is 0 whenever the previous value is 0.
type Comparison struct {
	Current  Metrics `json:"current"`
	Previous Metrics `json:"previous"`

	RevenueGrowth           types.Money `json:"revenueGrowth"`
	RevenueGrowthPercentage float64     `json:"revenueGrowthPercentage"`

	SalesGrowth           int     `json:"salesGrowth"`
	SalesGrowthPercentage float64 `json:"salesGrowthPercentage"`

	QuantityGrowth           int     `json:"quantityGrowth"`
	QuantityGrowthPercentage float64 `json:"quantityGrowthPercentage"`

	AverageOrderValueGrowth           types.Money `json:"averageOrderValueGrowth"`
	AverageOrderValueGrowthPercentage float64     `json:"averageOrderValueGrowthPercentage"`
}

// Compare computes growth = current - previous and growth/previous*100.
func Compare(current, previous Metrics) Comparison {
	c := Comparison{Current: current, Previous: previous}

	c.RevenueGrowth = current.TotalRevenue.Sub(previous.TotalRevenue)
	c.RevenueGrowthPercentage = types.PercentOf(c.RevenueGrowth, previous.TotalRevenue)

	c.SalesGrowth = current.TotalSales - previous.TotalSales
	c.SalesGrowthPercentage = types.Percent(c.SalesGrowth, previous.TotalSales)

	c.QuantityGrowth = current.TotalQuantitySold - previous.TotalQuantitySold
	c.QuantityGrowthPercentage = types.Percent(c.QuantityGrowth, previous.TotalQuantitySold)

	c.AverageOrderValueGrowth = current.AverageOrderValue.Sub(previous.AverageOrderValue)
	c.AverageOrderValueGrowthPercentage = types.PercentOf(c.AverageOrderValueGrowth, previous.AverageOrderValue)

	return c
}
