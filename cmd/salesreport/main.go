package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/internal/services"
	"salesreport/pkg/contracts"
)

// CLI is the command line of salesreport. Flags override the config file
// and SALESREPORT_* environment variables.
type CLI struct {
	Input  string `arg:"" optional:"" help:"Sales data file (.xlsx, .xlsm or .csv)."`
	Output string `arg:"" optional:"" help:"Workbook to write (.xlsx)."`

	Config        string `short:"c" help:"YAML config file." type:"path"`
	Sheet         string `help:"Worksheet to read from a workbook input."`
	Highlight     string `help:"Manager to highlight in the report."`
	TopProducts   int    `help:"Number of products on the Top Products sheet."`
	TopCategories int    `help:"Number of categories in the trend chart."`
	Currency      string `help:"Currency symbol used in number formats."`
	Progress      bool   `help:"Show a progress bar while loading rows."`
	NoFormulas    bool   `help:"Write values only, without the (live) formula columns."`
	TablesDir     string `help:"Also write the aggregate tables as CSV files into this directory." type:"path"`
	MetricsFile   string `help:"Write run metrics in Prometheus text format to this file." type:"path"`
	Trace         bool   `help:"Print stage spans to stderr."`
	LogLevel      string `help:"Log level (debug, info, warn, error)."`

	Version kong.VersionFlag `help:"Print version information and exit."`
}

// apply overlays the flags that were set onto cfg
func (c *CLI) apply(cfg *config.Config) {
	if c.Input != "" {
		cfg.Report.Input = c.Input
	}
	if c.Output != "" {
		cfg.Report.Output = c.Output
	}
	if c.Sheet != "" {
		cfg.Report.Sheet = c.Sheet
	}
	if c.Highlight != "" {
		cfg.Report.HighlightManager = c.Highlight
	}
	if c.TopProducts > 0 {
		cfg.Report.TopProducts = c.TopProducts
	}
	if c.TopCategories > 0 {
		cfg.Report.TopCategories = c.TopCategories
	}
	if c.Currency != "" {
		cfg.Report.CurrencySymbol = c.Currency
	}
	if c.Progress {
		cfg.Report.ShowProgress = true
	}
	if c.NoFormulas {
		cfg.Report.LiveFormulas = false
	}
	if c.TablesDir != "" {
		cfg.Report.TablesDir = c.TablesDir
	}
	if c.MetricsFile != "" {
		cfg.Telemetry.MetricsFile = c.MetricsFile
	}
	if c.Trace {
		cfg.Telemetry.TraceExporter = "stdout"
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one build and returns the process exit status. The path of
// the written workbook is the only output on stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name(config.AppName),
		kong.Description("Build the sales analysis workbook from a sales dataset."),
		kong.Vars{"version": contracts.GetFullVersionString()},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apperrors.ExitFailure
	}
	if _, err := parser.Parse(args); err != nil {
		if exitCode >= 0 {
			return exitCode
		}
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return apperrors.ExitUsage
	}
	// --help and --version
	if exitCode >= 0 {
		return exitCode
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fail(ctx, stderr, nil, err)
	}
	cli.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fail(ctx, stderr, nil, err)
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return fail(ctx, stderr, nil, apperrors.NewConfigError("invalid paths", err))
	}
	if paths.LogFile != "" {
		cfg.Logging.FilePath = paths.LogFile
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fail(ctx, stderr, nil, apperrors.NewConfigError("failed to initialize logger", err))
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureRunID(ctx)
	logger.InfoContext(ctx, "Starting salesreport",
		slog.String("version", contracts.Version),
		slog.String("layout", contracts.WorkbookLayoutVersion))
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, stderr, logger)
	if err != nil {
		return fail(ctx, stderr, logger, apperrors.NewConfigError("failed to initialize telemetry", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
		}
	}()

	svc := services.NewReportService(cfg.Report, telemetry, logger)
	svc.SetProgressOutput(stderr)

	result, err := svc.Build(ctx, paths)
	if err != nil {
		return fail(ctx, stderr, logger, err)
	}

	fmt.Fprintln(stdout, result.Report.FilePath)
	return apperrors.ExitOK
}

// fail reports err once and returns its exit status
func fail(ctx context.Context, stderr io.Writer, logger *slog.Logger, err error) int {
	if logger != nil {
		logger.ErrorContext(ctx, "Report build failed", apperrors.Fields(err)...)
	}
	fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
	return apperrors.ExitCode(err)
}
