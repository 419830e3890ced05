package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateRow is one group of an aggregate table
type AggregateRow struct {
	Key   string          `json:"key"`
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
	// Share is Value divided by the grand total of the dataset
	Share decimal.Decimal `json:"share"`
	// Rank is the 1-based competition rank by Value, highest first
	Rank int `json:"rank"`
	// FirstSeen is the index of the first input record in the group
	FirstSeen int `json:"first_seen"`
}

// AggregateTable maps a grouping key to a summed metric
type AggregateTable struct {
	Name      string         `json:"name"`
	KeyHeader string         `json:"key_header"`
	Rows      []AggregateRow `json:"rows"`
}

// Len returns the number of rows
func (t AggregateTable) Len() int {
	return len(t.Rows)
}

// Total returns the sum of all row values
func (t AggregateTable) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range t.Rows {
		total = total.Add(r.Value)
	}
	return total
}

// Lookup returns the row for key
func (t AggregateTable) Lookup(key string) (AggregateRow, bool) {
	for _, r := range t.Rows {
		if r.Key == key {
			return r, true
		}
	}
	return AggregateRow{}, false
}

// CategoryTrend holds a category's sales per year
type CategoryTrend struct {
	Category string            `json:"category"`
	ByYear   []decimal.Decimal `json:"by_year"`
	Total    decimal.Decimal   `json:"total"`
}

// CategoryTrendTable is the category x year matrix
type CategoryTrendTable struct {
	Years []int           `json:"years"`
	Rows  []CategoryTrend `json:"rows"`
}

// Row returns the trend for a category
func (t CategoryTrendTable) Row(category string) (CategoryTrend, bool) {
	for _, r := range t.Rows {
		if r.Category == category {
			return r, true
		}
	}
	return CategoryTrend{}, false
}

// YearValue returns the category's sales for year, zero when absent
func (c CategoryTrend) YearValue(years []int, year int) decimal.Decimal {
	for i, y := range years {
		if y == year && i < len(c.ByYear) {
			return c.ByYear[i]
		}
	}
	return decimal.Zero
}

// MonthlyPoint is one month of the monthly series
type MonthlyPoint struct {
	Period string          `json:"period"`
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Value  decimal.Decimal `json:"value"`
	// Change is (Value - previous) / previous. It is null for the first
	// month and when the previous month summed to zero.
	Change decimal.NullDecimal `json:"change"`
}

// MonthlyTrend is the chronological monthly series
type MonthlyTrend struct {
	Points []MonthlyPoint `json:"points"`
}

// Summary carries the dashboard KPIs
type Summary struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	RecordCount       int             `json:"record_count"`
	TotalOrders       int             `json:"total_orders"`
	DistinctManagers  int             `json:"distinct_managers"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	FirstYear         int             `json:"first_year,omitempty"`
	LastYear          int             `json:"last_year,omitempty"`
}

// Analysis is every aggregate computed for one dataset
type Analysis struct {
	Summary        Summary            `json:"summary"`
	Managers       AggregateTable     `json:"managers"`
	Categories     AggregateTable     `json:"categories"`
	CategoryTrends CategoryTrendTable `json:"category_trends"`
	// TopCategories are category names ordered by total sales, highest first
	TopCategories []string       `json:"top_categories"`
	Products      AggregateTable `json:"products"`
	Yearly        AggregateTable `json:"yearly"`
	Monthly       MonthlyTrend   `json:"monthly"`
}

// TopManager returns the manager with the highest sales
func (a *Analysis) TopManager() (AggregateRow, bool) {
	return topRow(a.Managers)
}

// TopProduct returns the product with the highest sales
func (a *Analysis) TopProduct() (AggregateRow, bool) {
	return topRow(a.Products)
}

func topRow(t AggregateTable) (AggregateRow, bool) {
	var best AggregateRow
	found := false
	for _, r := range t.Rows {
		switch {
		case !found, r.Value.GreaterThan(best.Value):
			best, found = r, true
		case r.Value.Equal(best.Value) && r.FirstSeen < best.FirstSeen:
			best = r
		}
	}
	return best, found
}
