package exporter

import (
	"fmt"
	"strings"

	"salesreport/pkg/contracts/domain"
)

// writeManagers renders the Manager Performance sheet. Managers are listed
// alphabetically with their competition rank.
func (b *workbookBuilder) writeManagers() error {
	const sheet = SheetManagers
	rows := b.analysis.Managers.Rows
	n := len(rows)
	last := n + 1

	headers := []string{"Manager", "Sales", "% of Total", "Rank"}
	if b.opts.LiveFormulas {
		headers = append(headers, "Sales (live)", "Rank (live)", "Excel Formula")
	}
	if err := b.writeHeader(sheet, headers...); err != nil {
		return err
	}

	highlightRow := 0
	for i, r := range rows {
		row := i + 2
		if err := b.writeRow(sheet, row, r.Key, toFloat(r.Value), toFloat(r.Share), r.Rank); err != nil {
			return err
		}
		if b.opts.LiveFormulas {
			formula := fmt.Sprintf("SUMIF(%s,%s,%s)",
				b.data.ref(domain.ColumnManager), criteriaString(r.Key), b.data.ref(domain.ColumnSales))
			if err := b.setFormula(sheet, 5, row, formula); err != nil {
				return err
			}
			if err := b.setFormula(sheet, 6, row, fmt.Sprintf("RANK(E%d,$E$2:$E$%d,0)", row, last)); err != nil {
				return err
			}
			if err := b.f.SetCellStr(sheet, cellName(7, row), "="+formula); err != nil {
				return err
			}
		}
		if b.opts.HighlightManager != "" && strings.EqualFold(r.Key, strings.TrimSpace(b.opts.HighlightManager)) {
			highlightRow = row
		}
	}

	if err := b.styleRange(sheet, 2, 2, 2, last, b.styles.money); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 3, 2, 3, last, b.styles.percent); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 4, 2, 4, last, b.styles.integer); err != nil {
		return err
	}
	if b.opts.LiveFormulas {
		if err := b.styleRange(sheet, 5, 2, 5, last, b.styles.money); err != nil {
			return err
		}
	}
	if highlightRow > 0 {
		if err := b.styleRange(sheet, 1, highlightRow, 1, highlightRow, b.styles.highlight); err != nil {
			return err
		}
		if err := b.styleRange(sheet, 2, highlightRow, 2, highlightRow, b.styles.highlightMoney); err != nil {
			return err
		}
	}
	if err := b.topBottomFormats(sheet, 2, 2, last); err != nil {
		return err
	}
	if err := b.setWidths(sheet, 30, 18, 12, 8, 18, 12, 60); err != nil {
		return err
	}

	b.summary.Rows[sheet] = n
	if n == 0 {
		return nil
	}
	anchor := cellName(len(headers)+2, 2)
	return b.addChart(sheet, anchor, columnChart(
		"Managerial Performance: Sales", "Manager", "Sales",
		sheetRange(sheet, 2, 1, 2, 1),
		sheetRange(sheet, 1, 2, 1, last),
		sheetRange(sheet, 2, 2, 2, last),
		720, 360))
}

// writeCategories renders the category x year matrix and, below it, the
// top categories table the trend chart is drawn from.
func (b *workbookBuilder) writeCategories() error {
	const sheet = SheetCategories
	trends := b.analysis.CategoryTrends
	years := trends.Years
	n := len(trends.Rows)
	last := n + 1
	totalCol := len(years) + 2

	headers := []interface{}{"Category \\ Year"}
	for _, y := range years {
		headers = append(headers, y)
	}
	headers = append(headers, "Total")
	if b.opts.LiveFormulas {
		headers = append(headers, "Total (live)")
	}
	if err := b.writeRow(sheet, 1, headers...); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 1, 1, len(headers), 1, b.styles.header); err != nil {
		return err
	}

	for i, trend := range trends.Rows {
		row := i + 2
		values := []interface{}{trend.Category}
		for _, v := range trend.ByYear {
			values = append(values, toFloat(v))
		}
		values = append(values, toFloat(trend.Total))
		if err := b.writeRow(sheet, row, values...); err != nil {
			return err
		}
		if b.opts.LiveFormulas {
			formula := fmt.Sprintf("SUMIF(%s,$A%d,%s)",
				b.data.ref(domain.ColumnCategory), row, b.data.ref(domain.ColumnSales))
			if err := b.setFormula(sheet, totalCol+1, row, formula); err != nil {
				return err
			}
		}
	}
	lastCol := totalCol
	if b.opts.LiveFormulas {
		lastCol++
	}
	if err := b.styleRange(sheet, 2, 2, lastCol, last, b.styles.money); err != nil {
		return err
	}
	widths := []float64{30}
	for i := 1; i < lastCol; i++ {
		widths = append(widths, 15)
	}
	if err := b.setWidths(sheet, widths...); err != nil {
		return err
	}
	b.summary.Rows[sheet] = n
	if n == 0 || len(years) == 0 {
		return nil
	}

	// top categories table
	headerRow := last + 2
	top := []interface{}{"Top Categories"}
	for _, y := range years {
		top = append(top, y)
	}
	if err := b.writeRow(sheet, headerRow, top...); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 1, headerRow, len(years)+1, headerRow, b.styles.header); err != nil {
		return err
	}
	series := make([]chartSeries, 0, len(b.analysis.TopCategories))
	for i, cat := range b.analysis.TopCategories {
		row := headerRow + 1 + i
		trend, _ := trends.Row(cat)
		values := []interface{}{cat}
		for _, v := range trend.ByYear {
			values = append(values, toFloat(v))
		}
		if err := b.writeRow(sheet, row, values...); err != nil {
			return err
		}
		series = append(series, chartSeries{
			name:       sheetRange(sheet, 1, row, 1, row),
			categories: sheetRange(sheet, 2, headerRow, len(years)+1, headerRow),
			values:     sheetRange(sheet, 2, row, len(years)+1, row),
		})
	}
	lastTop := headerRow + len(b.analysis.TopCategories)
	if err := b.styleRange(sheet, 2, headerRow+1, len(years)+1, lastTop, b.styles.money); err != nil {
		return err
	}

	anchor := cellName(lastCol+2, 2)
	return b.addChart(sheet, anchor, lineChart("Top Categories: Yearly Trend", "Year", "Sales", series, 720, 360))
}

// writeMonthly renders monthly totals with the month-over-month change.
// The change cell stays empty when there is no previous month or the
// previous month summed to zero.
func (b *workbookBuilder) writeMonthly() error {
	const sheet = SheetMonthly
	points := b.analysis.Monthly.Points
	n := len(points)
	last := n + 1

	headers := []string{"Period", "Year", "Month", "Sales", "MoM Change"}
	if b.opts.LiveFormulas {
		headers = append(headers, "Sales (live)", "MoM Change (live)")
	}
	if err := b.writeHeader(sheet, headers...); err != nil {
		return err
	}

	for i, p := range points {
		row := i + 2
		var change interface{}
		if p.Change.Valid {
			change = toFloat(p.Change.Decimal)
		}
		if err := b.writeRow(sheet, row, p.Period, p.Year, int(p.Month), toFloat(p.Value), change); err != nil {
			return err
		}
		if !b.opts.LiveFormulas {
			continue
		}
		sales := fmt.Sprintf("SUMIFS(%s,%s,B%d,%s,C%d)",
			b.data.ref(domain.ColumnSales), b.data.yearRef(), row, b.data.monthRef(), row)
		if err := b.setFormula(sheet, 6, row, sales); err != nil {
			return err
		}
		if i > 0 {
			mom := fmt.Sprintf(`IF(F%d=0,"",(F%d-F%d)/F%d)`, row-1, row, row-1, row-1)
			if err := b.setFormula(sheet, 7, row, mom); err != nil {
				return err
			}
		}
	}

	if err := b.styleRange(sheet, 4, 2, 4, last, b.styles.money); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 5, 2, 5, last, b.styles.percent); err != nil {
		return err
	}
	if b.opts.LiveFormulas {
		if err := b.styleRange(sheet, 6, 2, 6, last, b.styles.money); err != nil {
			return err
		}
		if err := b.styleRange(sheet, 7, 2, 7, last, b.styles.percent); err != nil {
			return err
		}
	}
	if err := b.setWidths(sheet, 12, 8, 8, 18, 14, 18, 18); err != nil {
		return err
	}

	b.summary.Rows[sheet] = n
	if n == 0 {
		return nil
	}
	anchor := cellName(len(headers)+2, 2)
	return b.addChart(sheet, anchor, lineChart("Monthly Sales", "Month", "Sales", []chartSeries{{
		name:       sheetRange(sheet, 4, 1, 4, 1),
		categories: sheetRange(sheet, 1, 2, 1, last),
		values:     sheetRange(sheet, 4, 2, 4, last),
	}}, 720, 360))
}

// writeProducts renders the top products with their share of total sales.
func (b *workbookBuilder) writeProducts() error {
	const sheet = SheetProducts
	rows := b.analysis.Products.Rows
	n := len(rows)
	last := n + 1

	headers := []string{"Product Name", "Sales", "% of Total", "Rank"}
	if b.opts.LiveFormulas {
		headers = append(headers, "Sales (live)", "% of Total (live)")
	}
	if err := b.writeHeader(sheet, headers...); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 2
		if err := b.writeRow(sheet, row, r.Key, toFloat(r.Value), toFloat(r.Share), r.Rank); err != nil {
			return err
		}
		if !b.opts.LiveFormulas {
			continue
		}
		sales := fmt.Sprintf("SUMIF(%s,%s,%s)",
			b.data.ref(domain.ColumnProductName), criteriaString(r.Key), b.data.ref(domain.ColumnSales))
		if err := b.setFormula(sheet, 5, row, sales); err != nil {
			return err
		}
		share := fmt.Sprintf("IFERROR(E%d/SUM(%s),0)", row, b.data.ref(domain.ColumnSales))
		if err := b.setFormula(sheet, 6, row, share); err != nil {
			return err
		}
	}

	if err := b.styleRange(sheet, 2, 2, 2, last, b.styles.money); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 3, 2, 3, last, b.styles.percent); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 4, 2, 4, last, b.styles.integer); err != nil {
		return err
	}
	if b.opts.LiveFormulas {
		if err := b.styleRange(sheet, 5, 2, 5, last, b.styles.money); err != nil {
			return err
		}
		if err := b.styleRange(sheet, 6, 2, 6, last, b.styles.percent); err != nil {
			return err
		}
	}
	if err := b.setWidths(sheet, 60, 18, 12, 8, 18, 16); err != nil {
		return err
	}

	b.summary.Rows[sheet] = n
	if n == 0 {
		return nil
	}
	anchor := cellName(len(headers)+2, 2)
	return b.addChart(sheet, anchor, pieChart("Top Products (Share of Sales)",
		sheetRange(sheet, 2, 1, 2, 1),
		sheetRange(sheet, 1, 2, 1, last),
		sheetRange(sheet, 2, 2, 2, last),
		620, 460))
}
