package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/provide-io/gen3save/internal/config"
	"github.com/provide-io/gen3save/pkg/backup"
	"github.com/provide-io/gen3save/pkg/gen3"
	"github.com/provide-io/gen3save/pkg/savemgr"
	"github.com/provide-io/gen3save/pkg/utils/fsutil"
)

const version = "0.1.0"

// Exit codes
const (
	ExitOK           = 0
	ExitError        = 1
	ExitPanic        = 101
	ExitCorruptSave  = 102
	ExitLocked       = 103
	ExitVerifyFailed = 104
	ExitInvalidArgs  = 105
	ExitIOError      = 106
)

// errVerifyFailed marks a save that loaded but has failing subsystems
var errVerifyFailed = errors.New("❌ save failed verification")

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// exitCode maps an error returned by a command to the process exit code
func exitCode(err error) int {
	var corrupt *gen3.CorruptSaveError
	var rangeErr *gen3.SlotRangeError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &corrupt), errors.Is(err, backup.ErrChecksumMismatch):
		return ExitCorruptSave
	case errors.Is(err, savemgr.ErrLocked), errors.Is(err, savemgr.ErrChangedOnDisk):
		return ExitLocked
	case errors.Is(err, errVerifyFailed):
		return ExitVerifyFailed
	case errors.As(err, &rangeErr), errors.Is(err, config.ErrInvalidConfig), errors.Is(err, errInvalidArgs):
		return ExitInvalidArgs
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission), errors.Is(err, fsutil.ErrInsufficientSpace):
		return ExitIOError
	default:
		return ExitError
	}
}

func main() {
	// Set up panic recovery to return specific exit code
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(ExitPanic)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
