package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"salesreport/pkg/contracts/domain"
)

const (
	headerYear  = "Year"
	headerMonth = "Month"
)

// dataLayout records where each logical column lands on the Data sheet
type dataLayout struct {
	columns []domain.Column
	index   map[domain.Column]int
	year    int
	month   int
	lastRow int
}

func newDataLayout(ds *domain.Dataset) dataLayout {
	l := dataLayout{index: make(map[domain.Column]int)}
	for _, c := range domain.DataColumns {
		if !c.IsRequired() && !ds.HasColumn(c) {
			continue
		}
		l.columns = append(l.columns, c)
		l.index[c] = len(l.columns)
	}
	l.year = len(l.columns) + 1
	l.month = len(l.columns) + 2
	l.lastRow = len(ds.Records) + 1
	return l
}

func (l dataLayout) has(c domain.Column) bool {
	_, ok := l.index[c]
	return ok
}

// ref is the whole-column reference of a logical column, e.g. Data!$H:$H
func (l dataLayout) ref(c domain.Column) string {
	return columnRef(SheetData, colName(l.index[c]))
}

func (l dataLayout) yearRef() string  { return columnRef(SheetData, colName(l.year)) }
func (l dataLayout) monthRef() string { return columnRef(SheetData, colName(l.month)) }

// bounded is the data-row range of a logical column, e.g. Data!$A$2:$A$100
func (l dataLayout) bounded(c domain.Column) string {
	col := l.index[c]
	return sheetRange(SheetData, col, 2, col, l.lastRow)
}

func (l dataLayout) headers() []string {
	headers := make([]string, 0, len(l.columns)+2)
	for _, c := range l.columns {
		headers = append(headers, c.Header())
	}
	return append(headers, headerYear, headerMonth)
}

// writeData streams every input record to the Data sheet, plus derived
// Year and Month columns that the live formulas filter on.
func (b *workbookBuilder) writeData() error {
	sw, err := b.f.NewStreamWriter(SheetData)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	for i, c := range b.data.columns {
		width := 16.0
		switch c {
		case domain.ColumnProductName:
			width = 50
		case domain.ColumnManager, domain.ColumnCategory, domain.ColumnSubCategory:
			width = 20
		}
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return err
		}
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	headers := b.data.headers()
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = excelize.Cell{StyleID: b.styles.header, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range b.ds.Records {
		row := make([]interface{}, 0, len(headers))
		for _, c := range b.data.columns {
			row = append(row, b.dataCell(r, c))
		}
		row = append(row, r.Year(), int(r.Month()))
		if err := sw.SetRow(cellName(1, i+2), row); err != nil {
			return fmt.Errorf("row %d: %w", r.RowNumber, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush data sheet: %w", err)
	}

	b.summary.Rows[SheetData] = len(b.ds.Records)
	return nil
}

func (b *workbookBuilder) dataCell(r domain.SaleRecord, c domain.Column) interface{} {
	switch c {
	case domain.ColumnOrderID:
		return r.OrderID
	case domain.ColumnOrderDate:
		return excelize.Cell{StyleID: b.styles.date, Value: r.OrderDate}
	case domain.ColumnCustomerID:
		return r.CustomerID
	case domain.ColumnManager:
		return r.Manager
	case domain.ColumnCategory:
		return r.Category
	case domain.ColumnSubCategory:
		return r.SubCategory
	case domain.ColumnProductName:
		return r.ProductName
	case domain.ColumnSales:
		return excelize.Cell{StyleID: b.styles.money, Value: toFloat(r.Sales)}
	}
	return nil
}
