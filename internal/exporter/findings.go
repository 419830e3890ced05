package exporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"salesreport/pkg/contracts/domain"
)

// writeFindings renders the narrative sheet, one line per row in column A.
func (b *workbookBuilder) writeFindings() error {
	const sheet = SheetFindings
	lines := findingLines(b.analysis, b.opts)

	for i, line := range lines {
		if line == "" {
			continue
		}
		if err := b.f.SetCellStr(sheet, cellName(1, i+1), line); err != nil {
			return err
		}
		if strings.HasSuffix(line, ":") {
			if err := b.styleRange(sheet, 1, i+1, 1, i+1, b.styles.title); err != nil {
				return err
			}
		}
	}
	if err := b.setWidths(sheet, 120); err != nil {
		return err
	}
	b.summary.Rows[sheet] = len(lines)
	return nil
}

// findingLines builds the executive summary and recommendations text.
func findingLines(a *domain.Analysis, opts WorkbookOptions) []string {
	money := func(d decimal.Decimal) string { return formatMoney(opts.CurrencySymbol, d) }
	s := a.Summary

	totalLabel := "Total Sales"
	if s.FirstYear > 0 {
		totalLabel = fmt.Sprintf("Total Sales (%d-%d)", s.FirstYear, s.LastYear)
	}
	lines := []string{
		"Executive Summary:",
		fmt.Sprintf("- %s: %s", totalLabel, money(s.TotalSales)),
		fmt.Sprintf("- Total Orders: %s", formatCount(s.TotalOrders)),
		fmt.Sprintf("- Distinct Managers: %s", formatCount(s.DistinctManagers)),
		fmt.Sprintf("- Average Order Value: %s", money(s.AverageOrderValue)),
		"",
	}
	if s.RecordCount == 0 {
		return append(lines, "- No sales records were found in the input.")
	}

	if top, ok := a.TopManager(); ok {
		lines = append(lines, "Manager Performance:")
		mean := a.Managers.Total().Div(decimal.NewFromInt(int64(a.Managers.Len())))
		aboveAvg := decimal.Zero
		if !mean.IsZero() {
			aboveAvg = top.Value.Sub(mean).Div(mean)
		}
		lines = append(lines, fmt.Sprintf("- Top Manager: %s with %s (%s above manager average). Consider incentives and capturing their playbook.",
			top.Key, money(top.Value), formatPercent(aboveAvg)))
		if opts.HighlightManager != "" {
			if row, found := lookupFold(a.Managers, opts.HighlightManager); found {
				lines = append(lines, fmt.Sprintf("- Highlighted Manager: %s ranks %d of %d with %s (%s of total sales).",
					row.Key, row.Rank, a.Managers.Len(), money(row.Value), formatPercent(row.Share)))
			}
		}
		lines = append(lines, "")
	}

	if len(a.TopCategories) > 0 {
		topCategory := a.TopCategories[0]
		trend, _ := a.CategoryTrends.Row(topCategory)
		years := a.CategoryTrends.Years
		first := trend.YearValue(years, s.FirstYear)
		last := trend.YearValue(years, s.LastYear)
		change := "n/a"
		if !first.IsZero() {
			change = formatPercent(last.Sub(first).Div(first))
		}
		lines = append(lines,
			"Category Trends:",
			fmt.Sprintf("- Top Category by cumulative sales: %s (consider re-allocating marketing spend toward this category).", topCategory),
			fmt.Sprintf("- %s sales in %d: %s; in %d: %s; change: %s between %d and %d.",
				topCategory, s.FirstYear, money(first), s.LastYear, money(last), change, s.FirstYear, s.LastYear),
			"",
		)
	}

	if top, ok := a.TopProduct(); ok {
		lines = append(lines,
			"Top Product:",
			fmt.Sprintf("- Top Product: %s contributes %s of total sales. Recommend bundling and heavier advertising.",
				top.Key, formatPercent(top.Share)),
			"",
		)
	}

	if best, latest, ok := monthlyHighlights(a.Monthly); ok {
		lines = append(lines, "Monthly Trend:",
			fmt.Sprintf("- Best month: %s with %s.", best.Period, money(best.Value)))
		if latest.Change.Valid {
			lines = append(lines, fmt.Sprintf("- Latest month (%s) changed %s against the previous month.",
				latest.Period, formatPercent(latest.Change.Decimal)))
		} else {
			lines = append(lines, fmt.Sprintf("- Latest month (%s) has no comparable previous month.", latest.Period))
		}
		lines = append(lines, "")
	}

	symbol := opts.CurrencySymbol
	if symbol == "" {
		symbol = "plain numbers"
	}
	return append(lines,
		"Recommendations Framework:",
		"- Managerial Performance: implement tiered incentives, targeted training for bottom performers, and consider reassigning managers with consistent underperformance.",
		"- Category Trends: increase inventory and promotions for high-growth categories; reduce stock for persistently declining categories.",
		"- Top Product: raise advertising spend, create bundle offers, and monitor stock to avoid stockouts.",
		"",
		"Notes:",
		"- Value columns hold the figures computed when this workbook was generated. Columns marked (live) are formulas over the 'Data' sheet and recalculate when it is edited.",
		fmt.Sprintf("- Amounts are formatted in %s.", symbol),
	)
}

func lookupFold(t domain.AggregateTable, key string) (domain.AggregateRow, bool) {
	key = strings.TrimSpace(key)
	for _, r := range t.Rows {
		if strings.EqualFold(r.Key, key) {
			return r, true
		}
	}
	return domain.AggregateRow{}, false
}

// monthlyHighlights returns the month with the highest sales and the last month.
func monthlyHighlights(m domain.MonthlyTrend) (best, latest domain.MonthlyPoint, ok bool) {
	if len(m.Points) == 0 {
		return best, latest, false
	}
	best = m.Points[0]
	for _, p := range m.Points[1:] {
		if p.Value.GreaterThan(best.Value) {
			best = p
		}
	}
	return best, m.Points[len(m.Points)-1], true
}
