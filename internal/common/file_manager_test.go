package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_WriteAndRead(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")

	opts := DefaultFileWriteOptions()
	opts.Permissions = 0600
	require.NoError(t, fm.WriteFile(path, []byte(`{"a":1}`), opts))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := fm.ReadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFileManager_ReadFileMaxSize(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "big.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0644))

	_, err := fm.ReadFile(path, 5)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	data, err := fm.ReadFile(path, 10)
	require.NoError(t, err)
	assert.Len(t, data, 10)
}

func TestFileManager_EnsureDirectoryOnFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	assert.Error(t, fm.EnsureDirectory(path, 0755))
	assert.True(t, fm.FileExists(path))
}
