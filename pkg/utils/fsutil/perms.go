// Package fsutil holds the file helpers shared by the save manager and the
// backup store.
package fsutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default modes for files and directories gen3save creates
const (
	DefaultFileMode os.FileMode = 0o644
	DefaultDirMode  os.FileMode = 0o755
	BackupFileMode  os.FileMode = 0o600
)

// ParseMode parses an octal permission string such as "600", "0600" or
// "0o600". An empty string yields def.
func ParseMode(s string, def os.FileMode) (os.FileMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	trimmed := strings.TrimPrefix(s, "0o")
	trimmed = strings.TrimPrefix(trimmed, "0")
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseUint(trimmed, 8, 12)
	if err != nil {
		return def, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	return os.FileMode(val), nil
}

// FormatMode renders a mode the way ParseMode accepts it
func FormatMode(mode os.FileMode) string {
	return fmt.Sprintf("0%o", mode.Perm())
}
