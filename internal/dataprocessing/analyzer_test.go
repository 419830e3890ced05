package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/pkg/contracts/domain"
)

func sale(orderID string, date time.Time, manager, category, product, amount string) domain.SaleRecord {
	return domain.SaleRecord{
		OrderID:     orderID,
		OrderDate:   date,
		Manager:     manager,
		Category:    category,
		ProductName: product,
		Sales:       decimal.RequireFromString(amount),
	}
}

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Columns: map[domain.Column]int{
			domain.ColumnOrderID:     0,
			domain.ColumnOrderDate:   1,
			domain.ColumnManager:     2,
			domain.ColumnCategory:    3,
			domain.ColumnProductName: 4,
			domain.ColumnSales:       5,
		},
		Records: []domain.SaleRecord{
			sale("CA-1", day(2014, time.January, 5), "Emmanuel", "Technology", "Phone X", "100.50"),
			sale("CA-1", day(2014, time.January, 5), "Emmanuel", "Furniture", "Chair A", "50.25"),
			sale("CA-2", day(2014, time.February, 9), "Aisha", "Technology", "Phone X", "200"),
			sale("CA-3", day(2015, time.February, 1), "Aisha", "Office Supplies", "Paper Ream", "10"),
			sale("CA-4", day(2015, time.February, 14), "Tunde", "Furniture", "Table B", "300"),
		},
	}
}

func analyze(ds *domain.Dataset) *domain.Analysis {
	return NewAnalyzer(nil, DefaultAnalyzerConfig()).Analyze(context.Background(), ds)
}

func keys(t domain.AggregateTable) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r.Key)
	}
	return out
}

func TestAnalyzeSummary(t *testing.T) {
	a := analyze(sampleDataset())

	s := a.Summary
	assert.Equal(t, "660.75", s.TotalSales.String())
	assert.Equal(t, 5, s.RecordCount)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 3, s.DistinctManagers)
	assert.Equal(t, "165.1875", s.AverageOrderValue.String())
	assert.Equal(t, 2014, s.FirstYear)
	assert.Equal(t, 2015, s.LastYear)
}

func TestAnalyzeOrdersWithoutOrderIDColumn(t *testing.T) {
	ds := sampleDataset()
	delete(ds.Columns, domain.ColumnOrderID)

	a := analyze(ds)
	assert.Equal(t, 5, a.Summary.TotalOrders)
	assert.Equal(t, "132.15", a.Summary.AverageOrderValue.String())
}

func TestAnalyzeManagers(t *testing.T) {
	a := analyze(sampleDataset())

	assert.Equal(t, []string{"Aisha", "Emmanuel", "Tunde"}, keys(a.Managers))

	aisha, ok := a.Managers.Lookup("Aisha")
	require.True(t, ok)
	assert.Equal(t, "210", aisha.Value.String())
	assert.Equal(t, 2, aisha.Rank)
	assert.Equal(t, 2, aisha.Count)

	tunde, _ := a.Managers.Lookup("Tunde")
	assert.Equal(t, 1, tunde.Rank)

	top, ok := a.TopManager()
	require.True(t, ok)
	assert.Equal(t, "Tunde", top.Key)
}

func TestAnalyzeCategoryConservation(t *testing.T) {
	ds := sampleDataset()
	a := analyze(ds)

	inputTotal := decimal.Zero
	for _, r := range ds.Records {
		inputTotal = inputTotal.Add(r.Sales)
	}
	assert.True(t, a.Categories.Total().Equal(inputTotal))

	trendTotal := decimal.Zero
	for _, row := range a.CategoryTrends.Rows {
		for _, v := range row.ByYear {
			trendTotal = trendTotal.Add(v)
		}
	}
	assert.True(t, trendTotal.Equal(inputTotal))
}

func TestAnalyzeCategoryTrends(t *testing.T) {
	a := analyze(sampleDataset())

	assert.Equal(t, []string{"Furniture", "Office Supplies", "Technology"}, keys(a.Categories))
	assert.Equal(t, []int{2014, 2015}, a.CategoryTrends.Years)
	assert.Equal(t, []string{"Furniture", "Technology", "Office Supplies"}, a.TopCategories)

	furniture, ok := a.CategoryTrends.Row("Furniture")
	require.True(t, ok)
	assert.Equal(t, "50.25", furniture.YearValue(a.CategoryTrends.Years, 2014).String())
	assert.Equal(t, "300", furniture.YearValue(a.CategoryTrends.Years, 2015).String())
	assert.Equal(t, "350.25", furniture.Total.String())

	tech, _ := a.CategoryTrends.Row("Technology")
	assert.True(t, tech.YearValue(a.CategoryTrends.Years, 2015).IsZero())
}

func TestAnalyzeTopProducts(t *testing.T) {
	a := analyze(sampleDataset())

	assert.Equal(t, []string{"Phone X", "Table B", "Chair A", "Paper Ream"}, keys(a.Products))
	assert.Equal(t, 1, a.Products.Rows[0].Rank)
	assert.Equal(t, "300.5", a.Products.Rows[0].Value.String())
	assert.True(t, a.Products.Rows[0].Share.Sub(decimal.RequireFromString("0.4548")).Abs().LessThan(decimal.RequireFromString("0.0001")))

	limited := NewAnalyzer(nil, AnalyzerConfig{TopProducts: 2}).Analyze(context.Background(), sampleDataset())
	assert.Equal(t, []string{"Phone X", "Table B"}, keys(limited.Products))
}

func TestAnalyzeTiesKeepFirstAppearance(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.SaleRecord{
		sale("", day(2014, time.January, 1), "B", "Cat", "Second", "10"),
		sale("", day(2014, time.January, 2), "A", "Cat", "First", "10"),
		sale("", day(2014, time.January, 3), "C", "Cat", "Third", "5"),
	}}
	a := analyze(ds)

	assert.Equal(t, []string{"Second", "First", "Third"}, keys(a.Products))
	assert.Equal(t, []int{1, 1, 3}, []int{a.Products.Rows[0].Rank, a.Products.Rows[1].Rank, a.Products.Rows[2].Rank})

	top, _ := a.TopManager()
	assert.Equal(t, "B", top.Key)
}

func TestAnalyzeMonthlyTrend(t *testing.T) {
	a := analyze(sampleDataset())
	points := a.Monthly.Points

	require.Len(t, points, 14)
	assert.Equal(t, "2014-01", points[0].Period)
	assert.Equal(t, "2015-02", points[13].Period)

	// first month has no predecessor
	assert.False(t, points[0].Change.Valid)

	require.True(t, points[1].Change.Valid)
	assert.Equal(t, "0.3267", points[1].Change.Decimal.Round(4).String())

	require.True(t, points[2].Change.Valid)
	assert.Equal(t, "-1", points[2].Change.Decimal.String())

	// previous month summed to zero
	assert.False(t, points[3].Change.Valid)
	assert.False(t, points[13].Change.Valid)
	assert.Equal(t, "310", points[13].Value.String())
}

func TestAnalyzeDeterministic(t *testing.T) {
	first := analyze(sampleDataset())
	second := analyze(sampleDataset())
	assert.Equal(t, first, second)
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	a := analyze(&domain.Dataset{})

	assert.True(t, a.Summary.TotalSales.IsZero())
	assert.Equal(t, 0, a.Summary.TotalOrders)
	assert.True(t, a.Summary.AverageOrderValue.IsZero())
	assert.Zero(t, a.Managers.Len())
	assert.Zero(t, a.Products.Len())
	assert.Empty(t, a.Monthly.Points)
	assert.Empty(t, a.TopCategories)
	_, ok := a.TopProduct()
	assert.False(t, ok)
}
