//go:build !windows

package fsutil

import "syscall"

// AvailableDiskSpace returns the bytes available to unprivileged users on
// the filesystem holding path.
func AvailableDiskSpace(path string) (int64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return int64(stat.Bavail) * int64(stat.Bsize), nil
}
