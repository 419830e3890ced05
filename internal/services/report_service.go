package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/exporter"
	"salesreport/internal/files"
	"salesreport/internal/infrastructure"
	"salesreport/internal/validation"
	"salesreport/pkg/contracts"
	"salesreport/pkg/contracts/domain"
)

// Build stages, used as span names and the stage metric attribute
const (
	StageValidate  = "validate"
	StageLoad      = "load"
	StageAggregate = "aggregate"
	StageWrite     = "write"
	StageTables    = "tables"
	StageCommit    = "commit"
)

// ReportService runs one report build: validate, load, aggregate, write,
// optional tables export, then commit.
type ReportService struct {
	cfg         config.ReportConfig
	telemetry   *infrastructure.Telemetry
	validator   *validation.FileValidator
	files       *files.Manager
	analyzer    *dataprocessing.Analyzer
	exporter    *exporter.WorkbookExporter
	progressOut io.Writer
	logger      *slog.Logger
}

// NewReportService creates a report service. telemetry may be nil.
func NewReportService(cfg config.ReportConfig, telemetry *infrastructure.Telemetry, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "report_service")

	return &ReportService{
		cfg:       cfg,
		telemetry: telemetry,
		validator: validation.NewFileValidator(logger),
		files:     files.NewManager(logger),
		analyzer: dataprocessing.NewAnalyzer(logger, dataprocessing.AnalyzerConfig{
			TopProducts:   cfg.TopProducts,
			TopCategories: cfg.TopCategories,
		}),
		exporter: exporter.NewWorkbookExporter(exporter.WorkbookOptions{
			CurrencySymbol:   cfg.CurrencySymbol,
			HighlightManager: cfg.HighlightManager,
			LiveFormulas:     cfg.LiveFormulas,
		}, logger),
		progressOut: os.Stderr,
		logger:      logger,
	}
}

// SetProgressOutput redirects the load progress bar
func (s *ReportService) SetProgressOutput(w io.Writer) {
	s.progressOut = w
}

// Build reads paths.InputFile and writes the workbook to paths.OutputFile.
// The output is replaced only once the new workbook is completely saved.
func (s *ReportService) Build(ctx context.Context, paths *config.Paths) (result *domain.BuildResult, err error) {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()
	defer func() { s.recordRun(ctx, err) }()

	s.logger.InfoContext(ctx, "Building report",
		slog.String("input", paths.InputFile),
		slog.String("output", paths.OutputFile))

	if err = s.validate(ctx, paths); err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := s.load(ctx, paths.InputFile)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	analysis := s.aggregate(ctx, ds)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	tmp, summary, err := s.write(ctx, ds, analysis, paths)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		s.files.DeleteFile(tmp)
		return nil, err
	}

	sources := []string{paths.InputFile}
	if s.cfg.TablesDir != "" {
		written, err := s.exportTables(ctx, analysis)
		if err != nil {
			s.files.DeleteFile(tmp)
			return nil, err
		}
		sources = append(sources, written...)
	}

	report := domain.Report{
		ID:         infrastructure.GetRunID(ctx),
		Title:      reportTitle(paths.OutputFile),
		Status:     domain.ReportStatusCompleted,
		Format:     domain.ReportFormatExcel,
		SourcePath: paths.InputFile,
		FilePath:   paths.OutputFile,
		Metadata: domain.ReportMetadata{
			RecordCount:      int64(len(ds.Records)),
			DataSources:      sources,
			IncludedSections: summary.Sheets,
			ChartCount:       summary.Charts,
			Version:          contracts.WorkbookLayoutVersion,
		},
	}
	report.DateFrom, report.DateTo = dateRange(ds.Records)
	if err = validateReport(report); err != nil {
		s.files.DeleteFile(tmp)
		return nil, err
	}

	report.FileSize, err = s.commit(ctx, tmp, paths.OutputFile)
	if err != nil {
		return nil, err
	}
	report.GeneratedAt = time.Now()
	report.Metadata.ProcessingTime = time.Since(start)

	s.logger.InfoContext(ctx, "Report built",
		slog.String("output", report.FilePath),
		slog.Int64("records", report.Metadata.RecordCount),
		slog.Int("sheets", len(summary.Sheets)),
		slog.Int("charts", summary.Charts),
		slog.Int64("size", report.FileSize),
		slog.Duration("duration", report.Metadata.ProcessingTime))

	return &domain.BuildResult{Report: report, Analysis: analysis}, nil
}

func (s *ReportService) validate(ctx context.Context, paths *config.Paths) (err error) {
	ctx, end := s.startStage(ctx, StageValidate, &err)
	defer end()

	if filepath.Clean(paths.InputFile) == filepath.Clean(paths.OutputFile) {
		return apperrors.NewAppValidationError("output file would overwrite the input").
			WithContext("file", paths.OutputFile)
	}
	if !strings.EqualFold(filepath.Ext(paths.OutputFile), ".xlsx") {
		return apperrors.NewAppValidationError("output file must have the .xlsx extension").
			WithContext("file", paths.OutputFile)
	}
	if err = s.validator.ValidateInputFile(paths.InputFile); err != nil {
		return err
	}
	if err = s.validator.ValidateOutputFile(paths.OutputFile); err != nil {
		return err
	}
	return s.validator.ValidateOutputDirectory(filepath.Dir(paths.OutputFile))
}

func (s *ReportService) load(ctx context.Context, input string) (ds *domain.Dataset, err error) {
	ctx, end := s.startStage(ctx, StageLoad, &err)
	defer end()

	ds, err = dataprocessing.LoadFile(ctx, input, dataprocessing.LoadOptions{
		Sheet:        s.cfg.Sheet,
		ShowProgress: s.cfg.ShowProgress,
		ProgressOut:  s.progressOut,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, err
	}

	infrastructure.AddSpanAttributes(ctx,
		attribute.Int("records", len(ds.Records)),
		attribute.String("sheet", ds.Sheet))
	if s.telemetry != nil {
		s.telemetry.Metrics.RecordsLoaded.Add(ctx, int64(len(ds.Records)))
	}
	return ds, nil
}

func (s *ReportService) aggregate(ctx context.Context, ds *domain.Dataset) *domain.Analysis {
	var err error
	ctx, end := s.startStage(ctx, StageAggregate, &err)
	defer end()

	return s.analyzer.Analyze(ctx, ds)
}

// write saves the workbook to a temp file next to the output and returns its path.
func (s *ReportService) write(ctx context.Context, ds *domain.Dataset, analysis *domain.Analysis, paths *config.Paths) (tmp string, summary *exporter.WriteSummary, err error) {
	ctx, end := s.startStage(ctx, StageWrite, &err)
	defer end()

	tmp, err = s.files.CreateTemp(filepath.Dir(paths.OutputFile), paths.TempOutputPattern())
	if err != nil {
		return "", nil, apperrors.NewStorageError("failed to stage output", err).
			WithContext("path", paths.OutputFile)
	}

	summary, err = s.exporter.Export(ctx, ds, analysis, tmp)
	if err != nil {
		s.files.DeleteFile(tmp)
		return "", nil, err
	}

	if s.telemetry != nil {
		for _, sheet := range summary.Sheets {
			s.telemetry.Metrics.RowsWritten.Add(ctx, int64(summary.Rows[sheet]),
				metric.WithAttributes(attribute.String("sheet", sheet)))
		}
	}
	return tmp, summary, nil
}

// commit moves the staged workbook over the output path.
func (s *ReportService) commit(ctx context.Context, tmp, output string) (size int64, err error) {
	ctx, end := s.startStage(ctx, StageCommit, &err)
	defer end()

	if err = s.files.MoveFile(tmp, output); err != nil {
		s.files.DeleteFile(tmp)
		return 0, apperrors.NewStorageError("failed to replace output file", err).
			WithContext("path", output)
	}
	size, err = s.files.GetFileSize(output)
	if err != nil {
		return 0, apperrors.NewStorageError("failed to stat output file", err).
			WithContext("path", output)
	}
	infrastructure.AddSpanAttributes(ctx, attribute.Int64("size", size))
	return size, nil
}

func (s *ReportService) exportTables(ctx context.Context, analysis *domain.Analysis) (written []string, err error) {
	ctx, end := s.startStage(ctx, StageTables, &err)
	defer end()

	written, err = exporter.NewTableExporter(s.cfg.TablesDir, s.logger).ExportTables(ctx, analysis)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write aggregate tables", err).
			WithContext("dir", s.cfg.TablesDir)
	}
	return written, nil
}

func (s *ReportService) startStage(ctx context.Context, stage string, errp *error) (context.Context, func()) {
	if s.telemetry == nil {
		return ctx, func() {}
	}
	return s.telemetry.StartStage(ctx, stage, errp)
}

func (s *ReportService) recordRun(ctx context.Context, err error) {
	if s.telemetry == nil {
		return
	}
	errType := ""
	if err != nil {
		errType = string(apperrors.TypeOf(err))
		if errType == "" {
			errType = "UNKNOWN"
		}
	}
	s.telemetry.RecordRun(ctx, errType)
}

var reportValidator = validator.New()

// validateReport checks the report fields before the output is committed.
func validateReport(report domain.Report) error {
	if err := reportValidator.Struct(report); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return apperrors.NewAppError(apperrors.ErrTypeValidation,
				"invalid report: "+strings.Join(fields, ", "), err).
				WithContext("file", report.FilePath)
		}
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid report", err)
	}
	return nil
}

func reportTitle(output string) string {
	base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	return strings.ReplaceAll(base, "_", " ")
}

// dateRange returns the earliest and latest order dates
func dateRange(records []domain.SaleRecord) (from, to time.Time) {
	if len(records) == 0 {
		return from, to
	}
	first := lo.MinBy(records, func(a, b domain.SaleRecord) bool { return a.OrderDate.Before(b.OrderDate) })
	last := lo.MaxBy(records, func(a, b domain.SaleRecord) bool { return a.OrderDate.After(b.OrderDate) })
	return first.OrderDate, last.OrderDate
}
