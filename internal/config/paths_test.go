package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsFrom(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Report.Input = "data/sales.xlsx"
	cfg.Report.Output = filepath.Join(base, "out", "report.xlsx")

	paths, err := ResolvePathsFrom(base, cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data", "sales.xlsx"), paths.InputFile)
	assert.Equal(t, filepath.Join(base, "out", "report.xlsx"), paths.OutputFile)
	assert.Equal(t, filepath.Join(base, "out"), paths.OutputDir)
	assert.Equal(t, filepath.Join(base, "logs", "salesreport.log"), paths.LogFile)
}

func TestResolvePathsFrom_Errors(t *testing.T) {
	base := t.TempDir()

	cfg := Default()
	cfg.Report.Input = " "
	_, err := ResolvePathsFrom(base, cfg)
	assert.Error(t, err)

	cfg = Default()
	cfg.Report.Input = "same.xlsx"
	cfg.Report.Output = filepath.Join(base, "same.xlsx")
	_, err = ResolvePathsFrom(base, cfg)
	assert.Error(t, err)
}

func TestResolvePaths_UsesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	paths, err := ResolvePaths(Default())
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, wd, paths.WorkingDir)
	assert.Equal(t, filepath.Join(wd, DefaultOutputFile), paths.OutputFile)
}

func TestTempOutputPattern(t *testing.T) {
	p := &Paths{OutputFile: "/tmp/GlobalTech_Sales_Analysis.xlsx"}
	assert.Equal(t, ".GlobalTech_Sales_Analysis.*.xlsx", p.TempOutputPattern())
}
