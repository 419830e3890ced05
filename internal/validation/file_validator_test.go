package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salesreport/internal/errors"
)

func newTestValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "sales.xlsx")
	csv := filepath.Join(dir, "sales.CSV")
	txt := filepath.Join(dir, "sales.txt")
	for _, p := range []string{xlsx, csv, txt} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	tests := []struct {
		name     string
		path     string
		wantType apperrors.ErrorType
	}{
		{name: "xlsx file", path: xlsx},
		{name: "csv file with upper case extension", path: csv},
		{name: "missing file", path: filepath.Join(dir, "nope.xlsx"), wantType: apperrors.ErrTypeNotFound},
		{name: "directory", path: dir, wantType: apperrors.ErrTypeValidation},
		{name: "unsupported extension", path: txt, wantType: apperrors.ErrTypeValidation},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInputFile(tt.path)
			if tt.wantType == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestValidateOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	require.NoError(t, newTestValidator().ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check file must be cleaned up")
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()
	v := newTestValidator()

	assert.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "new.xlsx")))

	existing := filepath.Join(dir, "old.xlsx")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0644))
	assert.NoError(t, v.ValidateOutputFile(existing))

	err := v.ValidateOutputFile(dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}
