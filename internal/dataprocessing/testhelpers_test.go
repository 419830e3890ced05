package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var salesHeader = []interface{}{"Order ID", "Order Date", "Customer ID", "Manager", "Category", "Sub-Category", "Product Name", "Sales"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// writeWorkbook saves rows to a single-sheet workbook in a temp dir.
func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// writeCSV saves lines to a csv file in a temp dir.
func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

// sampleRows is a small dataset spanning two years and three months.
func sampleRows() [][]interface{} {
	return [][]interface{}{
		salesHeader,
		{"CA-1", day(2014, time.January, 5), "C1", "Emmanuel", "Technology", "Phones", "Phone X", 100.50},
		{"CA-1", day(2014, time.January, 5), "C1", "Emmanuel", "Furniture", "Chairs", "Chair A", 50.25},
		{"CA-2", day(2014, time.February, 9), "C2", "Aisha", "Technology", "Phones", "Phone X", 200},
		{"CA-3", day(2015, time.February, 1), "C3", "Aisha", "Office Supplies", "Paper", "Paper Ream", 10},
		{"CA-4", day(2015, time.February, 14), "C4", "Tunde", "Furniture", "Tables", "Table B", 300},
	}
}
