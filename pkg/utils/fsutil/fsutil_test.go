package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    os.FileMode
		wantErr bool
	}{
		{"", BackupFileMode, false},
		{"600", 0o600, false},
		{"0644", 0o644, false},
		{"0o755", 0o755, false},
		{"0", 0, false},
		{"999", BackupFileMode, true},
		{"rw-r--r--", BackupFileMode, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input, BackupFileMode)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMode(t *testing.T) {
	assert.Equal(t, "0600", FormatMode(0o600))
	assert.Equal(t, "0755", FormatMode(os.ModeDir|0o755))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "emerald.sav")

	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("new contents"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new contents", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be gone")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "emerald.sav")
	assert.Error(t, WriteFileAtomic(path, []byte("x"), 0o644))
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	logger := hclog.NewNullLogger()

	available, err := AvailableDiskSpace(dir)
	require.NoError(t, err)
	assert.Positive(t, available)

	assert.NoError(t, CheckDiskSpace(dir, 1, logger))
	assert.ErrorIs(t, CheckDiskSpace(dir, available+1<<40, logger), ErrInsufficientSpace)

	// Unqueryable paths are let through
	assert.NoError(t, CheckDiskSpace(filepath.Join(dir, "missing", "deeper"), 1<<62, logger))
}
