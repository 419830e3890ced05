package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// Sheet names of the output workbook, in tab order
const (
	SheetData       = "Data"
	SheetManagers   = "Manager Performance"
	SheetCategories = "Category Trends"
	SheetMonthly    = "Monthly Trend"
	SheetProducts   = "Top Products"
	SheetDashboard  = "Dashboard"
	SheetFindings   = "Findings & Recommendations"
)

// SheetOrder lists every sheet the workbook contains
var SheetOrder = []string{
	SheetData,
	SheetManagers,
	SheetCategories,
	SheetMonthly,
	SheetProducts,
	SheetDashboard,
	SheetFindings,
}

// WorkbookOptions configures the generated workbook
type WorkbookOptions struct {
	CurrencySymbol   string
	HighlightManager string
	// LiveFormulas adds formula columns that recompute from the Data sheet
	LiveFormulas bool
}

// WriteSummary describes what was written
type WriteSummary struct {
	Sheets []string
	// Rows is the number of data rows per sheet, headers excluded
	Rows   map[string]int
	Charts int
}

// TotalRows returns the number of data rows across all sheets
func (s *WriteSummary) TotalRows() int {
	total := 0
	for _, n := range s.Rows {
		total += n
	}
	return total
}

// WorkbookExporter renders an analysis as a styled xlsx workbook
type WorkbookExporter struct {
	opts   WorkbookOptions
	logger *slog.Logger
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(opts WorkbookOptions, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{opts: opts, logger: logger}
}

// Export builds the workbook and saves it to path.
func (e *WorkbookExporter) Export(ctx context.Context, ds *domain.Dataset, analysis *domain.Analysis, path string) (*WriteSummary, error) {
	f, summary, err := e.Build(ctx, ds, analysis)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return nil, apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "Workbook saved",
		slog.String("path", path),
		slog.Int("sheets", len(summary.Sheets)),
		slog.Int("rows", summary.TotalRows()),
		slog.Int("charts", summary.Charts))
	return summary, nil
}

// Build renders the workbook in memory. The caller owns the returned file.
func (e *WorkbookExporter) Build(ctx context.Context, ds *domain.Dataset, analysis *domain.Analysis) (*excelize.File, *WriteSummary, error) {
	f := excelize.NewFile()
	b := &workbookBuilder{
		f:        f,
		ds:       ds,
		analysis: analysis,
		opts:     e.opts,
		data:     newDataLayout(ds),
		summary:  &WriteSummary{Rows: make(map[string]int)},
	}

	if err := b.build(); err != nil {
		f.Close()
		return nil, nil, apperrors.NewStorageError("failed to build workbook", err)
	}

	e.logger.DebugContext(ctx, "Workbook built",
		slog.Any("sheets", b.summary.Sheets),
		slog.Int("charts", b.summary.Charts))
	return f, b.summary, nil
}

type workbookBuilder struct {
	f        *excelize.File
	ds       *domain.Dataset
	analysis *domain.Analysis
	opts     WorkbookOptions
	styles   styleSet
	data     dataLayout
	summary  *WriteSummary
}

func (b *workbookBuilder) build() error {
	if err := b.createSheets(); err != nil {
		return err
	}

	styles, err := newStyleSet(b.f, b.opts.CurrencySymbol)
	if err != nil {
		return err
	}
	b.styles = styles

	steps := []struct {
		sheet string
		write func() error
	}{
		{SheetData, b.writeData},
		{SheetManagers, b.writeManagers},
		{SheetCategories, b.writeCategories},
		{SheetMonthly, b.writeMonthly},
		{SheetProducts, b.writeProducts},
		{SheetDashboard, b.writeDashboard},
		{SheetFindings, b.writeFindings},
	}
	for _, step := range steps {
		if err := step.write(); err != nil {
			return fmt.Errorf("sheet %q: %w", step.sheet, err)
		}
	}

	if idx, err := b.f.GetSheetIndex(SheetDashboard); err == nil && idx >= 0 {
		b.f.SetActiveSheet(idx)
	}
	return b.f.SetDocProps(&excelize.DocProperties{
		Title:       "Sales Analysis",
		Subject:     "Sales performance report",
		Creator:     "salesreport",
		Description: "Manager performance, category trends, top products and monthly change",
	})
}

// createSheets renames the default sheet to Data and adds the rest in order.
func (b *workbookBuilder) createSheets() error {
	if err := b.f.SetSheetName(b.f.GetSheetName(0), SheetData); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range SheetOrder[1:] {
		if _, err := b.f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}
	b.summary.Sheets = append([]string(nil), SheetOrder...)
	return nil
}

// writeRow writes values starting at column A of row.
func (b *workbookBuilder) writeRow(sheet string, row int, values ...interface{}) error {
	return b.f.SetSheetRow(sheet, cellName(1, row), &values)
}

// writeHeader writes a styled header in row 1 and freezes it.
func (b *workbookBuilder) writeHeader(sheet string, headers ...string) error {
	return b.writeHeaderAt(sheet, 1, headers...)
}

func (b *workbookBuilder) writeHeaderAt(sheet string, row int, headers ...string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := b.writeRow(sheet, row, values...); err != nil {
		return err
	}
	if err := b.styleRange(sheet, 1, row, len(headers), row, b.styles.header); err != nil {
		return err
	}
	if row != 1 {
		return nil
	}
	return b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// styleRange applies style to a rectangle. Empty ranges are ignored.
func (b *workbookBuilder) styleRange(sheet string, col1, row1, col2, row2, style int) error {
	if row2 < row1 || col2 < col1 {
		return nil
	}
	return b.f.SetCellStyle(sheet, cellName(col1, row1), cellName(col2, row2), style)
}

func (b *workbookBuilder) setFormula(sheet string, col, row int, formula string) error {
	return b.f.SetCellFormula(sheet, cellName(col, row), formula)
}

// setWidths sets column widths starting at column A.
func (b *workbookBuilder) setWidths(sheet string, widths ...float64) error {
	for i, w := range widths {
		c := colName(i + 1)
		if err := b.f.SetColWidth(sheet, c, c, w); err != nil {
			return err
		}
	}
	return nil
}

// topBottomFormats colours the three highest values green and the three lowest red.
func (b *workbookBuilder) topBottomFormats(sheet string, col, firstRow, lastRow int) error {
	if lastRow < firstRow {
		return nil
	}
	ref := cellName(col, firstRow) + ":" + cellName(col, lastRow)
	top, bottom := b.styles.top, b.styles.bottom
	return b.f.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{
		{Type: "top", Criteria: "=", Value: "3", Format: &top},
		{Type: "bottom", Criteria: "=", Value: "3", Format: &bottom},
	})
}
