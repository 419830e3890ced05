package exporter

import (
	"fmt"
	"strconv"

	"salesreport/pkg/contracts/domain"
)

const (
	dashboardYearHeaderRow = 9
	dashboardChartWidth    = 480
	dashboardChartHeight   = 300
)

type kpi struct {
	label string
	value interface{}
	style int
	live  string
}

// writeDashboard renders the KPI block, the yearly table and the summary charts.
func (b *workbookBuilder) writeDashboard() error {
	const sheet = SheetDashboard
	s := b.analysis.Summary

	headers := []string{"KPI", "Value"}
	if b.opts.LiveFormulas {
		headers = append(headers, "Live")
	}
	if err := b.writeRowStyled(sheet, 1, b.styles.kpiLabel, headers...); err != nil {
		return err
	}

	for i, k := range b.kpis(s) {
		row := i + 2
		if err := b.writeRow(sheet, row, k.label, k.value); err != nil {
			return err
		}
		lastCol := 2
		if b.opts.LiveFormulas && k.live != "" {
			if err := b.setFormula(sheet, 3, row, k.live); err != nil {
				return err
			}
			lastCol = 3
		}
		if err := b.styleRange(sheet, 2, row, lastCol, row, k.style); err != nil {
			return err
		}
	}

	// yearly table
	yearRow := dashboardYearHeaderRow
	yearHeaders := []string{"Year", "Sales"}
	if b.opts.LiveFormulas {
		yearHeaders = append(yearHeaders, "Sales (live)")
	}
	if err := b.writeHeaderAt(sheet, yearRow, yearHeaders...); err != nil {
		return err
	}
	yearly := b.analysis.Yearly.Rows
	for i, r := range yearly {
		row := yearRow + 1 + i
		var year interface{} = r.Key
		if y, ok := yearNumber(r.Key); ok {
			year = y
		}
		if err := b.writeRow(sheet, row, year, toFloat(r.Value)); err != nil {
			return err
		}
		if b.opts.LiveFormulas {
			formula := fmt.Sprintf("SUMIFS(%s,%s,A%d)", b.data.ref(domain.ColumnSales), b.data.yearRef(), row)
			if err := b.setFormula(sheet, 3, row, formula); err != nil {
				return err
			}
		}
	}
	lastYear := yearRow + len(yearly)
	if err := b.styleRange(sheet, 2, yearRow+1, len(yearHeaders), lastYear, b.styles.money); err != nil {
		return err
	}
	if err := b.setWidths(sheet, 28, 22, 22); err != nil {
		return err
	}
	b.summary.Rows[sheet] = len(b.kpis(s)) + len(yearly)

	return b.dashboardCharts(lastYear)
}

func (b *workbookBuilder) kpis(s domain.Summary) []kpi {
	totalLabel := "Total Sales"
	if s.FirstYear > 0 {
		totalLabel = fmt.Sprintf("Total Sales (%d-%d)", s.FirstYear, s.LastYear)
	}
	sales := b.data.ref(domain.ColumnSales)

	kpis := []kpi{
		{label: totalLabel, value: toFloat(s.TotalSales), style: b.styles.kpiMoney, live: fmt.Sprintf("SUM(%s)", sales)},
		{label: "Total Orders", value: s.TotalOrders, style: b.styles.kpiValue},
		{label: "Distinct Managers", value: s.DistinctManagers, style: b.styles.kpiValue},
		{label: "Average Order Value", value: toFloat(s.AverageOrderValue), style: b.styles.kpiMoney, live: "IFERROR(C2/C3,0)"},
		{label: "Records", value: s.RecordCount, style: b.styles.kpiValue, live: fmt.Sprintf("COUNTA(%s)-1", b.data.ref(domain.ColumnOrderDate))},
	}
	if s.RecordCount == 0 {
		return kpis
	}
	// distinct counts need a bounded range
	if b.data.has(domain.ColumnOrderID) {
		kpis[1].live = distinctCount(b.data.bounded(domain.ColumnOrderID))
	} else {
		kpis[1].live = fmt.Sprintf("COUNTA(%s)-1", b.data.ref(domain.ColumnOrderDate))
	}
	kpis[2].live = distinctCount(b.data.bounded(domain.ColumnManager))
	return kpis
}

// distinctCount counts the distinct non-blank values of a range.
func distinctCount(rng string) string {
	return fmt.Sprintf(`SUMPRODUCT((%s<>"")/COUNTIF(%s,%s&""))`, rng, rng, rng)
}

func (b *workbookBuilder) dashboardCharts(lastYearRow int) error {
	const sheet = SheetDashboard
	a := b.analysis

	if n := a.Managers.Len(); n > 0 {
		if err := b.addChart(sheet, "E2", columnChart("Managerial Performance", "Manager", "Sales",
			sheetRange(SheetManagers, 2, 1, 2, 1),
			sheetRange(SheetManagers, 1, 2, 1, n+1),
			sheetRange(SheetManagers, 2, 2, 2, n+1),
			dashboardChartWidth, dashboardChartHeight)); err != nil {
			return err
		}
	}
	if n := a.Products.Len(); n > 0 {
		if err := b.addChart(sheet, "M2", pieChart("Top Products",
			sheetRange(SheetProducts, 2, 1, 2, 1),
			sheetRange(SheetProducts, 1, 2, 1, n+1),
			sheetRange(SheetProducts, 2, 2, 2, n+1),
			dashboardChartWidth, dashboardChartHeight)); err != nil {
			return err
		}
	}
	if lastYearRow > dashboardYearHeaderRow {
		if err := b.addChart(sheet, "E19", lineChart("Sales by Year", "Year", "Sales", []chartSeries{{
			name:       sheetRange(sheet, 2, dashboardYearHeaderRow, 2, dashboardYearHeaderRow),
			categories: sheetRange(sheet, 1, dashboardYearHeaderRow+1, 1, lastYearRow),
			values:     sheetRange(sheet, 2, dashboardYearHeaderRow+1, 2, lastYearRow),
		}}, dashboardChartWidth, dashboardChartHeight)); err != nil {
			return err
		}
	}
	if n := len(a.Monthly.Points); n > 0 {
		if err := b.addChart(sheet, "M19", lineChart("Monthly Sales", "Month", "Sales", []chartSeries{{
			name:       sheetRange(SheetMonthly, 4, 1, 4, 1),
			categories: sheetRange(SheetMonthly, 1, 2, 1, n+1),
			values:     sheetRange(SheetMonthly, 4, 2, 4, n+1),
		}}, dashboardChartWidth, dashboardChartHeight)); err != nil {
			return err
		}
	}
	return nil
}

// writeRowStyled writes labels in row and applies style to them.
func (b *workbookBuilder) writeRowStyled(sheet string, row, style int, labels ...string) error {
	values := make([]interface{}, len(labels))
	for i, l := range labels {
		values[i] = l
	}
	if err := b.writeRow(sheet, row, values...); err != nil {
		return err
	}
	return b.styleRange(sheet, 1, row, len(labels), row, style)
}

func yearNumber(key string) (int, bool) {
	y, err := strconv.Atoi(key)
	return y, err == nil
}
