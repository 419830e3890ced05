package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"salesreport/pkg/contracts/domain"
)

// CSVWriter writes CSV files below a base directory
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes a CSV file, replacing any existing file
func (w *CSVWriter) WriteCSV(fileName string, options WriteOptions) (string, error) {
	fullPath := fileName
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.baseDir, fileName)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return "", fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return fullPath, file.Close()
}

// TableExporter writes the aggregate tables as CSV files next to the workbook
type TableExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewTableExporter creates an exporter writing into dir
func NewTableExporter(dir string, logger *slog.Logger) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExporter{writer: NewCSVWriter(dir), logger: logger}
}

// ExportTables writes managers.csv, categories.csv, products.csv and monthly.csv.
// It returns the paths written.
func (t *TableExporter) ExportTables(ctx context.Context, a *domain.Analysis) ([]string, error) {
	tables := []struct {
		file string
		opts WriteOptions
	}{
		{"managers.csv", aggregateCSV(a.Managers)},
		{"categories.csv", aggregateCSV(a.Categories)},
		{"products.csv", aggregateCSV(a.Products)},
		{"monthly.csv", monthlyCSV(a.Monthly)},
	}

	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		table.opts.BOMPrefix = true
		path, err := t.writer.WriteCSV(table.file, table.opts)
		if err != nil {
			return paths, fmt.Errorf("write %s: %w", table.file, err)
		}
		paths = append(paths, path)
	}

	t.logger.InfoContext(ctx, "Aggregate tables written", slog.Int("files", len(paths)))
	return paths, nil
}

func aggregateCSV(t domain.AggregateTable) WriteOptions {
	records := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		records = append(records, []string{
			r.Key,
			r.Value.StringFixed(2),
			r.Share.StringFixed(6),
			strconv.Itoa(r.Rank),
			strconv.Itoa(r.Count),
		})
	}
	return WriteOptions{
		Headers: []string{t.KeyHeader, "Sales", "Share", "Rank", "Records"},
		Records: records,
	}
}

func monthlyCSV(m domain.MonthlyTrend) WriteOptions {
	records := make([][]string, 0, len(m.Points))
	for _, p := range m.Points {
		change := ""
		if p.Change.Valid {
			change = p.Change.Decimal.StringFixed(6)
		}
		records = append(records, []string{p.Period, p.Value.StringFixed(2), change})
	}
	return WriteOptions{
		Headers: []string{"Period", "Sales", "MoM Change"},
		Records: records,
	}
}
