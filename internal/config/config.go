package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "salesreport/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ReportConfig controls what the workbook contains
type ReportConfig struct {
	Input            string `yaml:"input" envconfig:"INPUT" validate:"required"`
	Output           string `yaml:"output" envconfig:"OUTPUT" validate:"required,endswith=.xlsx"`
	Sheet            string `yaml:"sheet" envconfig:"SHEET"`
	HighlightManager string `yaml:"highlight_manager" envconfig:"HIGHLIGHT_MANAGER"`
	TopProducts      int    `yaml:"top_products" envconfig:"TOP_PRODUCTS" validate:"min=1,max=100"`
	TopCategories    int    `yaml:"top_categories" envconfig:"TOP_CATEGORIES" validate:"min=1,max=50"`
	CurrencySymbol   string `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL" validate:"required,max=8"`
	LiveFormulas     bool   `yaml:"live_formulas" envconfig:"LIVE_FORMULAS"`
	ShowProgress     bool   `yaml:"show_progress" envconfig:"SHOW_PROGRESS"`
	// TablesDir, when set, receives the aggregate tables as CSV files
	TablesDir string `yaml:"tables_dir" envconfig:"TABLES_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig controls run tracing and the metrics textfile
type TelemetryConfig struct {
	Environment   string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricsFile   string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file, a
// .env file and SALESREPORT_* environment variables, in increasing
// precedence. An empty configFile means the well-known locations are searched.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load "+DotEnvFile, err)
	}

	cfg := Default()

	explicit := configFile != ""
	if !explicit {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, apperrors.NewConfigError("failed to load config file", err).
					WithContext("config_file", configFile)
			}
		}
	}

	// Fields without a matching variable are left untouched, so the
	// file and default values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the first config file found in the common locations
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

var validate = validator.New()

// Validate checks the configuration and normalises a few fields
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfigError("invalid configuration: "+strings.Join(fields, ", "), err)
		}
		return apperrors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Input:            DefaultInputFile,
			Output:           DefaultOutputFile,
			HighlightManager: DefaultHighlightManager,
			TopProducts:      DefaultTopProducts,
			TopCategories:    DefaultTopCategories,
			CurrencySymbol:   DefaultCurrencySymbol,
			LiveFormulas:     true,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Environment:   "production",
			TraceExporter: "none",
		},
	}
}
