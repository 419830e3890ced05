package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "salesreport/internal/errors"
	"salesreport/pkg/contracts/domain"
)

// LoadOptions controls how an input file is read
type LoadOptions struct {
	// Sheet forces a worksheet name for xlsx input
	Sheet string
	// ShowProgress renders a progress bar on ProgressOut while rows are parsed
	ShowProgress bool
	ProgressOut  io.Writer
	Logger       *slog.Logger
}

// columnAliases maps normalised header text to logical columns
var columnAliases = map[string]domain.Column{
	"order date":   domain.ColumnOrderDate,
	"date":         domain.ColumnOrderDate,
	"manager":      domain.ColumnManager,
	"category":     domain.ColumnCategory,
	"sub-category": domain.ColumnSubCategory,
	"subcategory":  domain.ColumnSubCategory,
	"sub category": domain.ColumnSubCategory,
	"product name": domain.ColumnProductName,
	"product":      domain.ColumnProductName,
	"sales":        domain.ColumnSales,
	"amount":       domain.ColumnSales,
	"order id":     domain.ColumnOrderID,
	"customer id":  domain.ColumnCustomerID,
}

// LoadFile reads a sales dataset from an xlsx or csv file.
func LoadFile(ctx context.Context, path string, opts LoadOptions) (*domain.Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		rows  [][]string
		sheet string
		err   error
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		rows, err = readCSVRows(path)
	case ".xlsx", ".xlsm":
		rows, sheet, err = readWorkbookRows(path, opts.Sheet)
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported input format %q", ext)).
			WithContext("path", path)
	}
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Input read",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("raw_rows", len(rows)))

	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError("input has no header row").WithContext("path", path)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	columns := mapColumns(headers)
	for _, col := range domain.RequiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, apperrors.NewMissingColumnError(col.Header()).WithContext("path", path)
		}
	}

	ds := &domain.Dataset{
		Source:  path,
		Sheet:   sheet,
		Headers: headers,
		Columns: columns,
	}

	var bar progressTracker = noProgress{}
	if opts.ShowProgress && len(rows) > 1 {
		bar = newProgressBar(len(rows)-1, opts.ProgressOut, "loading rows")
	}
	defer bar.Finish()

	fromWorkbook := ext != ".csv"
	for i := 1; i < len(rows); i++ {
		_ = bar.Add(1)
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		rec, err := parseRecord(row, i+1, columns, fromWorkbook)
		if err != nil {
			return nil, err.WithContext("path", path)
		}
		ds.Records = append(ds.Records, rec)
	}

	logger.InfoContext(ctx, "Dataset loaded",
		slog.Int("records", len(ds.Records)),
		slog.Int("columns", len(headers)))
	return ds, nil
}

func readWorkbookRows(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	opts := excelize.Options{RawCellValue: true}
	if sheet != "" {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			return nil, "", apperrors.NewNotFoundError(fmt.Sprintf("worksheet %q", sheet)).WithContext("path", path)
		}
		rows, err := f.GetRows(sheet, opts)
		if err != nil {
			return nil, "", apperrors.NewParsingError("failed to read worksheet", err).WithContext("sheet", sheet)
		}
		return rows, sheet, nil
	}

	// Prefer the first sheet whose header row carries every required column
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, "", apperrors.NewSchemaError("workbook has no worksheets").WithContext("path", path)
	}
	var firstRows [][]string
	for i, name := range sheets {
		rows, err := f.GetRows(name, opts)
		if err != nil {
			return nil, "", apperrors.NewParsingError("failed to read worksheet", err).WithContext("sheet", name)
		}
		if i == 0 {
			firstRows = rows
		}
		if len(rows) > 0 && hasRequiredColumns(rows[0]) {
			return rows, name, nil
		}
	}
	return firstRows, sheets[0], nil
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open csv file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv file", err).WithContext("path", path)
	}
	// Excel writes a UTF-8 byte order mark in front of the first header
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func mapColumns(headers []string) map[domain.Column]int {
	columns := make(map[domain.Column]int)
	for i, h := range headers {
		col, ok := columnAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := columns[col]; !seen {
			columns[col] = i
		}
	}
	return columns
}

func hasRequiredColumns(header []string) bool {
	columns := mapColumns(header)
	for _, col := range domain.RequiredColumns {
		if _, ok := columns[col]; !ok {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRecord(row []string, rowNumber int, columns map[domain.Column]int, fromWorkbook bool) (domain.SaleRecord, *apperrors.AppError) {
	get := func(col domain.Column) string {
		if idx, ok := columns[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	rawDate := get(domain.ColumnOrderDate)
	date, err := parseDate(rawDate, fromWorkbook)
	if err != nil {
		return domain.SaleRecord{}, apperrors.NewCellParsingError(rowNumber, domain.ColumnOrderDate.Header(), rawDate, err)
	}

	rawAmount := get(domain.ColumnSales)
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return domain.SaleRecord{}, apperrors.NewCellParsingError(rowNumber, domain.ColumnSales.Header(), rawAmount, err)
	}

	return domain.SaleRecord{
		RowNumber:   rowNumber,
		OrderID:     get(domain.ColumnOrderID),
		CustomerID:  get(domain.ColumnCustomerID),
		OrderDate:   date,
		Manager:     get(domain.ColumnManager),
		Category:    get(domain.ColumnCategory),
		SubCategory: get(domain.ColumnSubCategory),
		ProductName: get(domain.ColumnProductName),
		Sales:       amount,
	}, nil
}
