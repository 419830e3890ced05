package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SalesHeader is the full header row of a sales sheet
var SalesHeader = []interface{}{"Order ID", "Order Date", "Customer ID", "Manager", "Category", "Sub-Category", "Product Name", "Sales"}

// Day returns midnight UTC of the given date
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SampleSales is a three-record dataset over two years, totalling 600.50.
func SampleSales() [][]interface{} {
	return [][]interface{}{
		SalesHeader,
		{"CA-1", Day(2014, time.January, 5), "C1", "Emmanuel", "Technology", "Phones", "Phone X", 100.50},
		{"CA-2", Day(2014, time.February, 9), "C2", "Aisha", "Technology", "Phones", "Phone X", 200},
		{"CA-3", Day(2015, time.March, 1), "C3", "Tunde", "Furniture", "Tables", "Table B", 300},
	}
}

// WriteWorkbook saves rows to dir/sales.xlsx on a sheet named "Sheet1".
func WriteWorkbook(t *testing.T, dir string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(dir, "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// WriteCSV saves lines to dir/sales.csv
func WriteCSV(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}
