package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	m := NewManager(nil)

	path, err := m.CreateTemp(dir, ".report.*.xlsx")
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), ".report."))
	assert.True(t, strings.HasSuffix(path, ".xlsx"))
	assert.FileExists(t, path)
}

func TestMoveFileReplacesDestination(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(nil)

	src := filepath.Join(dir, "new.xlsx")
	dst := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("new content"), 0644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0644))

	require.NoError(t, m.MoveFile(src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(content))
	assert.NoFileExists(t, src)

	size, err := m.GetFileSize(dst)
	require.NoError(t, err)
	assert.Equal(t, int64(len("new content")), size)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(nil)

	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "sub", "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	require.NoError(t, m.CopyFile(src, dst))
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.FileExists(t, src)
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(nil)

	path := filepath.Join(dir, "gone.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, m.DeleteFile(path))
	assert.NoFileExists(t, path)
	// deleting twice is fine
	assert.NoError(t, m.DeleteFile(path))

	_, err := m.GetFileSize(path)
	assert.Error(t, err)
}
