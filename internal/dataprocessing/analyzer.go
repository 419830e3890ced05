package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"salesreport/pkg/contracts/domain"
)

// Analyzer computes every aggregate of the report from a loaded dataset.
// The result depends only on the records and the configuration, so two runs
// over the same input always agree.
type Analyzer struct {
	logger        *slog.Logger
	topProducts   int
	topCategories int
}

// AnalyzerConfig holds configuration options for the Analyzer.
type AnalyzerConfig struct {
	TopProducts   int // Number of products kept in the top products table
	TopCategories int // Number of categories drawn on the trend chart
}

// DefaultAnalyzerConfig returns the configuration used by the report.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		TopProducts:   10,
		TopCategories: 6,
	}
}

// NewAnalyzer creates a new analyzer with the given configuration.
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultAnalyzerConfig()
	if config.TopProducts <= 0 {
		config.TopProducts = defaults.TopProducts
	}
	if config.TopCategories <= 0 {
		config.TopCategories = defaults.TopCategories
	}
	return &Analyzer{
		logger:        logger,
		topProducts:   config.TopProducts,
		topCategories: config.TopCategories,
	}
}

// Analyze builds the analysis for ds. An empty dataset yields empty tables.
func (a *Analyzer) Analyze(ctx context.Context, ds *domain.Dataset) *domain.Analysis {
	records := ds.Records
	a.logger.InfoContext(ctx, "aggregating sales records", slog.Int("record_count", len(records)))

	summary := summarize(ds)
	total := summary.TotalSales

	managers := groupSum(lo.Filter(records, func(r domain.SaleRecord, _ int) bool {
		return r.Manager != ""
	}), func(r domain.SaleRecord) string { return r.Manager })
	rankRows(managers)
	withShares(managers, total)
	sortByKey(managers)

	categories := groupSum(records, func(r domain.SaleRecord) string { return r.Category })
	rankRows(categories)
	withShares(categories, total)
	topCategories := lo.Map(lo.Slice(byValueDesc(categories), 0, a.topCategories), func(r domain.AggregateRow, _ int) string {
		return r.Key
	})
	sortByKey(categories)

	products := byValueDesc(groupSum(records, func(r domain.SaleRecord) string { return r.ProductName }))
	rankRows(products)
	withShares(products, total)
	products = lo.Slice(products, 0, a.topProducts)

	yearly := groupSum(records, func(r domain.SaleRecord) string { return strconv.Itoa(r.Year()) })
	withShares(yearly, total)
	sort.SliceStable(yearly, func(i, j int) bool {
		yi, _ := strconv.Atoi(yearly[i].Key)
		yj, _ := strconv.Atoi(yearly[j].Key)
		return yi < yj
	})

	analysis := &domain.Analysis{
		Summary:        summary,
		Managers:       domain.AggregateTable{Name: "Manager Performance", KeyHeader: "Manager", Rows: managers},
		Categories:     domain.AggregateTable{Name: "Category Totals", KeyHeader: "Category", Rows: categories},
		CategoryTrends: categoryTrends(records, categories),
		TopCategories:  topCategories,
		Products:       domain.AggregateTable{Name: "Top Products", KeyHeader: "Product Name", Rows: products},
		Yearly:         domain.AggregateTable{Name: "Yearly Sales", KeyHeader: "Year", Rows: yearly},
		Monthly:        monthlyTrend(records),
	}

	a.logger.InfoContext(ctx, "aggregation complete",
		slog.Int("managers", len(managers)),
		slog.Int("categories", len(categories)),
		slog.Int("products", len(products)),
		slog.Int("months", len(analysis.Monthly.Points)))
	return analysis
}

func summarize(ds *domain.Dataset) domain.Summary {
	records := ds.Records
	s := domain.Summary{
		TotalSales:        decimal.Zero,
		RecordCount:       len(records),
		AverageOrderValue: decimal.Zero,
	}
	for _, r := range records {
		s.TotalSales = s.TotalSales.Add(r.Sales)
	}

	s.DistinctManagers = len(lo.Uniq(lo.FilterMap(records, func(r domain.SaleRecord, _ int) (string, bool) {
		return r.Manager, r.Manager != ""
	})))

	if ds.HasColumn(domain.ColumnOrderID) {
		s.TotalOrders = len(lo.Uniq(lo.FilterMap(records, func(r domain.SaleRecord, _ int) (string, bool) {
			return r.OrderID, r.OrderID != ""
		})))
	} else {
		s.TotalOrders = len(records)
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalSales.Div(decimal.NewFromInt(int64(s.TotalOrders)))
	}

	if len(records) > 0 {
		years := lo.Map(records, func(r domain.SaleRecord, _ int) int { return r.Year() })
		s.FirstYear = lo.Min(years)
		s.LastYear = lo.Max(years)
	}
	return s
}

// groupSum sums sales per key. Rows come out in order of first appearance.
func groupSum(records []domain.SaleRecord, key func(domain.SaleRecord) string) []domain.AggregateRow {
	index := make(map[string]int)
	rows := make([]domain.AggregateRow, 0)
	for i, r := range records {
		k := key(r)
		pos, ok := index[k]
		if !ok {
			pos = len(rows)
			index[k] = pos
			rows = append(rows, domain.AggregateRow{Key: k, Value: decimal.Zero, FirstSeen: i})
		}
		rows[pos].Value = rows[pos].Value.Add(r.Sales)
		rows[pos].Count++
	}
	return rows
}

// byValueDesc returns rows sorted by value, highest first. Ties keep input order.
func byValueDesc(rows []domain.AggregateRow) []domain.AggregateRow {
	sorted := append([]domain.AggregateRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Value.Equal(sorted[j].Value) {
			return sorted[i].Value.GreaterThan(sorted[j].Value)
		}
		return sorted[i].FirstSeen < sorted[j].FirstSeen
	})
	return sorted
}

// rankRows assigns competition ranks: equal values share the better rank.
func rankRows(rows []domain.AggregateRow) {
	for i := range rows {
		rank := 1
		for j := range rows {
			if rows[j].Value.GreaterThan(rows[i].Value) {
				rank++
			}
		}
		rows[i].Rank = rank
	}
}

func withShares(rows []domain.AggregateRow, total decimal.Decimal) {
	for i := range rows {
		if total.IsZero() {
			rows[i].Share = decimal.Zero
			continue
		}
		rows[i].Share = rows[i].Value.Div(total)
	}
}

func sortByKey(rows []domain.AggregateRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
}

func categoryTrends(records []domain.SaleRecord, categories []domain.AggregateRow) domain.CategoryTrendTable {
	years := lo.Uniq(lo.Map(records, func(r domain.SaleRecord, _ int) int { return r.Year() }))
	sort.Ints(years)
	yearPos := make(map[int]int, len(years))
	for i, y := range years {
		yearPos[y] = i
	}

	table := domain.CategoryTrendTable{Years: years, Rows: make([]domain.CategoryTrend, 0, len(categories))}
	catPos := make(map[string]int, len(categories))
	for i, c := range categories {
		catPos[c.Key] = i
		byYear := make([]decimal.Decimal, len(years))
		for y := range byYear {
			byYear[y] = decimal.Zero
		}
		table.Rows = append(table.Rows, domain.CategoryTrend{Category: c.Key, ByYear: byYear, Total: decimal.Zero})
	}
	for _, r := range records {
		row := &table.Rows[catPos[r.Category]]
		y := yearPos[r.Year()]
		row.ByYear[y] = row.ByYear[y].Add(r.Sales)
		row.Total = row.Total.Add(r.Sales)
	}
	return table
}

// monthlyTrend sums sales per calendar month from the first to the last month
// of the data. Months without sales are kept as zero points.
func monthlyTrend(records []domain.SaleRecord) domain.MonthlyTrend {
	if len(records) == 0 {
		return domain.MonthlyTrend{Points: []domain.MonthlyPoint{}}
	}

	sums := make(map[string]decimal.Decimal)
	first, last := monthStart(records[0].OrderDate), monthStart(records[0].OrderDate)
	for _, r := range records {
		m := monthStart(r.OrderDate)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		if sum, ok := sums[r.Period()]; ok {
			sums[r.Period()] = sum.Add(r.Sales)
		} else {
			sums[r.Period()] = r.Sales
		}
	}

	var points []domain.MonthlyPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		period := m.Format(domain.PeriodLayout)
		value, ok := sums[period]
		if !ok {
			value = decimal.Zero
		}
		point := domain.MonthlyPoint{
			Period: period,
			Year:   m.Year(),
			Month:  m.Month(),
			Value:  value,
		}
		if n := len(points); n > 0 {
			point.Change = monthOverMonth(points[n-1].Value, point.Value)
		}
		points = append(points, point)
	}
	return domain.MonthlyTrend{Points: points}
}

// monthOverMonth returns (current - previous) / previous, null when previous is zero.
func monthOverMonth(previous, current decimal.Decimal) decimal.NullDecimal {
	if previous.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(current.Sub(previous).Div(previous))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
