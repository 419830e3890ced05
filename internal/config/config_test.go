package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salesreport/internal/errors"
)

// chdir switches into dir for the duration of the test so the .env and
// config file lookups only see what the test wrote.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultInputFile, cfg.Report.Input)
	assert.Equal(t, DefaultOutputFile, cfg.Report.Output)
	assert.Equal(t, "Emmanuel", cfg.Report.HighlightManager)
	assert.Equal(t, 10, cfg.Report.TopProducts)
	assert.Equal(t, 6, cfg.Report.TopCategories)
	assert.Equal(t, "₦", cfg.Report.CurrencySymbol)
	assert.True(t, cfg.Report.LiveFormulas)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		files       map[string]string
		configFile  string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputFile, cfg.Report.Input)
				assert.Equal(t, 10, cfg.Report.TopProducts)
			},
		},
		{
			name: "yaml file found in well-known location",
			files: map[string]string{
				"salesreport.yaml": "report:\n  input: sales.csv\n  top_products: 5\n  live_formulas: false\nlogging:\n  level: DEBUG\n",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "sales.csv", cfg.Report.Input)
				assert.Equal(t, 5, cfg.Report.TopProducts)
				assert.False(t, cfg.Report.LiveFormulas)
				assert.Equal(t, "debug", cfg.Logging.Level)
				// untouched fields keep their defaults
				assert.Equal(t, DefaultOutputFile, cfg.Report.Output)
			},
		},
		{
			name: "env overrides yaml",
			files: map[string]string{
				"config.yaml": "report:\n  top_products: 5\n",
			},
			env: map[string]string{
				"SALESREPORT_REPORT_TOP_PRODUCTS":      "7",
				"SALESREPORT_REPORT_HIGHLIGHT_MANAGER": "Chidi",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7, cfg.Report.TopProducts)
				assert.Equal(t, "Chidi", cfg.Report.HighlightManager)
			},
		},
		{
			name: "dotenv file is loaded",
			files: map[string]string{
				".env": "SALESREPORT_REPORT_CURRENCY_SYMBOL=$\nSALESREPORT_TELEMETRY_TRACE_EXPORTER=stdout\n",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "$", cfg.Report.CurrencySymbol)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name:       "explicit config file that does not exist",
			configFile: "missing.yaml",
			wantErr:    true,
		},
		{
			name: "invalid yaml",
			files: map[string]string{
				"salesreport.yaml": "report: [unterminated",
			},
			wantErr: true,
		},
		{
			name: "validation failure",
			env: map[string]string{
				"SALESREPORT_REPORT_OUTPUT": "report.csv",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			for name, content := range tt.files {
				writeFile(t, filepath.Join(dir, name), content)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, ok := tt.files[".env"]; ok {
				// godotenv sets real process variables; clear them afterwards
				t.Cleanup(func() {
					os.Unsetenv("SALESREPORT_REPORT_CURRENCY_SYMBOL")
					os.Unsetenv("SALESREPORT_TELEMETRY_TRACE_EXPORTER")
				})
			}

			cfg, err := Load(tt.configFile)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{name: "zero top products", mutate: func(c *Config) { c.Report.TopProducts = 0 }, wantErr: true},
		{name: "missing currency", mutate: func(c *Config) { c.Report.CurrencySymbol = "" }, wantErr: true},
		{name: "non xlsx output", mutate: func(c *Config) { c.Report.Output = "out.xls" }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "upper case level is normalised", mutate: func(c *Config) { c.Logging.Level = "WARN" }},
		{name: "file output needs a path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, wantErr: true},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
