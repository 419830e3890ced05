package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "salesreport/internal/errors"
)

// SupportedInputExtensions lists the input formats the loader understands
var SupportedInputExtensions = []string{".xlsx", ".xlsm", ".csv"}

// FileValidator checks the input file and output location before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is a readable file of a supported type
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Input file does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("input file %q", path)).
			WithContext("file", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat input file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Input path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSupported(ext) {
		v.logger.Error("Unsupported input file type",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported input file type %q, expected one of %s",
			ext, strings.Join(SupportedInputExtensions, ", ")))
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewPermissionError(fmt.Sprintf("input file %s is not readable: %v", path, err))
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a test file
	file, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewPermissionError(fmt.Sprintf("output directory %s is not writable: %v", dir, err))
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks that an existing output path can be replaced
func (v *FileValidator) ValidateOutputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat output file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Output path is a directory",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("output path %s is a directory", path))
	}
	v.logger.Info("Existing output file will be overwritten",
		slog.String("file", path))
	return nil
}

func isSupported(ext string) bool {
	for _, e := range SupportedInputExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
