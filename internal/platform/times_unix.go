//go:build linux || darwin

package platform

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// setTimes applies src's access and modification times to path.
func setTimes(path string, src os.FileInfo) error {
	atime := src.ModTime()
	if stat, ok := src.Sys().(*syscall.Stat_t); ok {
		atime = atimeFromStat(stat)
	}
	times := []unix.Timespec{
		unix.NsecToTimespec(atime.UnixNano()),
		unix.NsecToTimespec(src.ModTime().UnixNano()),
	}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, 0); err != nil {
		return fmt.Errorf("utimensat %s: %w", path, err)
	}
	return nil
}
