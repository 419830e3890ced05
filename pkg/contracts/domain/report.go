package domain

import (
	"time"
)

// Report describes a generated workbook
type Report struct {
	ID          string         `json:"id" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Status      ReportStatus   `json:"status" validate:"required"`
	Format      ReportFormat   `json:"format" validate:"required"`
	SourcePath  string         `json:"source_path" validate:"required"`
	FilePath    string         `json:"file_path" validate:"required"`
	FileSize    int64          `json:"file_size"`
	GeneratedAt time.Time      `json:"generated_at"`
	DateFrom    time.Time      `json:"date_from"`
	DateTo      time.Time      `json:"date_to"`
	Metadata    ReportMetadata `json:"metadata"`
}

// ReportStatus represents the status of a report run
type ReportStatus string

const (
	ReportStatusCompleted ReportStatus = "completed"
)

// ReportFormat defines the format of a report
type ReportFormat string

const (
	ReportFormatExcel ReportFormat = "excel"
)

// ReportMetadata contains metadata about a report
type ReportMetadata struct {
	RecordCount      int64         `json:"record_count"`
	ProcessingTime   time.Duration `json:"processing_time"`
	DataSources      []string      `json:"data_sources"`
	IncludedSections []string      `json:"included_sections"`
	ChartCount       int           `json:"chart_count"`
	Version          string        `json:"version"`
}

// BuildResult is returned by a successful report build
type BuildResult struct {
	Report   Report    `json:"report"`
	Analysis *Analysis `json:"analysis"`
}
