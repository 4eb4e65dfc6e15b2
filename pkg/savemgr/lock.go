package savemgr

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
)

// ErrLocked means another live process holds the save's lock file.
var ErrLocked = errors.New("🔒 save is locked by another process")

// LockPath returns the lock file used for a save
func LockPath(savePath string) string {
	return savePath + ".lock"
}

// IsProcessRunning checks if a process with given PID is still running
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix, Signal(0) checks if process exists without actually sending a signal
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// acquireLock creates <save>.lock holding our PID. Locks left behind by
// dead processes, or whose contents cannot be parsed, are removed first.
func acquireLock(savePath string, logger hclog.Logger) (release func(), err error) {
	lockPath := LockPath(savePath)

	if data, err := os.ReadFile(lockPath); err == nil {
		contents := strings.TrimSpace(string(data))
		oldPid, err := strconv.Atoi(contents)
		switch {
		case err != nil:
			logger.Info("🧹 Removing invalid lock file (couldn't parse PID)", "path", lockPath)
			os.Remove(lockPath)
		case oldPid == os.Getpid():
			return nil, fmt.Errorf("%w: held by this process", ErrLocked)
		case !IsProcessRunning(oldPid):
			logger.Info("🧹 Removing stale lock from dead process", "pid", oldPid)
			os.Remove(lockPath)
		default:
			logger.Debug("🔒 Lock held by active process", "pid", oldPid)
			return nil, fmt.Errorf("%w: pid %d", ErrLocked, oldPid)
		}
	}

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
		return nil, err
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		os.Remove(lockPath)
		return nil, err
	}

	logger.Debug("🔒 Acquired save lock", "path", lockPath)
	return func() {
		if err := os.Remove(lockPath); err != nil {
			logger.Debug("⚠️ Failed to remove lock file", "error", err)
		} else {
			logger.Debug("🔓 Released save lock")
		}
	}, nil
}
