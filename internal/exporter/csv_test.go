package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(content[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestTableExporter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	paths, err := NewTableExporter(dir, nil).ExportTables(context.Background(), analyze(sampleDataset()))
	require.NoError(t, err)
	require.Len(t, paths, 4)

	managers := readCSV(t, filepath.Join(dir, "managers.csv"))
	assert.Equal(t, []string{"Manager", "Sales", "Share", "Rank", "Records"}, managers[0])
	assert.Equal(t, []string{"Aisha", "210.00", "0.317821", "2", "2"}, managers[1])

	monthly := readCSV(t, filepath.Join(dir, "monthly.csv"))
	assert.Equal(t, []string{"2014-01", "150.75", ""}, monthly[1])
	assert.Equal(t, "-1.000000", monthly[3][2])
}

func TestCSVWriterOverwrites(t *testing.T) {
	w := NewCSVWriter(t.TempDir())

	_, err := w.WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}, {"2"}}})
	require.NoError(t, err)
	path, err := w.WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"3"}}})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(content))
}
