package fsutil

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ErrInsufficientSpace means a write would not fit on the target volume.
var ErrInsufficientSpace = errors.New("❌ insufficient disk space")

// CheckDiskSpace verifies dir's volume can hold needed more bytes. A volume
// that cannot be queried is not treated as full.
func CheckDiskSpace(dir string, needed int64, logger hclog.Logger) error {
	available, err := AvailableDiskSpace(dir)
	if err != nil {
		logger.Warn("⚠️ Could not check disk space", "path", dir, "error", err)
		return nil
	}

	logger.Trace("💾 Disk space check", "needed", needed, "available", available)
	if available < needed {
		logger.Error("❌ Insufficient disk space", "path", dir, "needed", needed, "available", available)
		return fmt.Errorf("%w: need %d bytes in %s, have %d", ErrInsufficientSpace, needed, dir, available)
	}
	return nil
}
