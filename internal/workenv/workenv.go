// Package workenv resolves the per-user directories gen3save keeps its
// configuration and backups in.
package workenv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "gen3save"

// DataRoot returns the root data directory
func DataRoot() string {
	// Check environment variable first
	if dir := os.Getenv("GEN3SAVE_DATA_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", appName)
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName)
		}
	default:
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, appName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", appName)
		}
	}

	// Fallback to temp directory
	return filepath.Join(os.TempDir(), appName)
}

// ConfigDir returns the directory holding gen3save.ini
func ConfigDir() string {
	if dir := os.Getenv("GEN3SAVE_CONFIG_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, appName)
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(os.TempDir(), appName, "config")
}

// BackupDir returns the backup directory for one save file. The name
// combines the save's base name with a hash of its absolute path, so two
// saves called "emerald.sav" in different folders do not share backups.
func BackupDir(root, savePath string) string {
	abs, err := filepath.Abs(savePath)
	if err != nil {
		abs = savePath
	}
	h := sha256.Sum256([]byte(abs))
	base := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return filepath.Join(root, "backups", fmt.Sprintf("%s-%s", sanitize(base), hex.EncodeToString(h[:])[:8]))
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// Ensure creates a directory with its subdirectories
func Ensure(path string, dirs []DirectorySpec) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	for _, dir := range dirs {
		dirPath := filepath.Join(path, dir.Path)
		mode := dir.Mode
		if mode == 0 {
			mode = 0755
		}

		if err := os.MkdirAll(dirPath, os.FileMode(mode)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir.Path, err)
		}
	}

	return nil
}

// DirectorySpec specifies a directory to create
type DirectorySpec struct {
	Path string
	Mode uint32
}
