package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the resolved file system locations of one run
type Paths struct {
	WorkingDir string
	InputFile  string
	OutputFile string
	OutputDir  string
	LogFile    string
}

// ResolvePaths makes the configured paths absolute against the working directory.
func ResolvePaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolvePathsFrom(wd, cfg)
}

// ResolvePathsFrom resolves paths against baseDir
func ResolvePathsFrom(baseDir string, cfg *Config) (*Paths, error) {
	if strings.TrimSpace(cfg.Report.Input) == "" {
		return nil, fmt.Errorf("input file is not set")
	}
	if strings.TrimSpace(cfg.Report.Output) == "" {
		return nil, fmt.Errorf("output file is not set")
	}

	p := &Paths{
		WorkingDir: baseDir,
		InputFile:  absFrom(baseDir, cfg.Report.Input),
		OutputFile: absFrom(baseDir, cfg.Report.Output),
	}
	p.OutputDir = filepath.Dir(p.OutputFile)
	if cfg.Logging.FilePath != "" {
		p.LogFile = absFrom(baseDir, cfg.Logging.FilePath)
	}

	if p.InputFile == p.OutputFile {
		return nil, fmt.Errorf("output file %s would overwrite the input", p.OutputFile)
	}
	return p, nil
}

// TempOutputPattern returns the os.CreateTemp pattern used to stage the
// workbook. It keeps the .xlsx extension so excelize picks the right content types.
func (p *Paths) TempOutputPattern() string {
	base := strings.TrimSuffix(filepath.Base(p.OutputFile), filepath.Ext(p.OutputFile))
	return "." + base + ".*.xlsx"
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution summary",
		slog.String("working_dir", p.WorkingDir),
		slog.String("input", p.InputFile),
		slog.String("output", p.OutputFile),
		slog.String("log_file", p.LogFile))
}

func absFrom(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
