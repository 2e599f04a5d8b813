//go:build linux

package fileops

import (
	"os"
	"syscall"
)

// statAtime extracts the last-access time from a Linux Stat_t, the closest
// portable stand-in for the original design's atime() over struct stat.
func statAtime(info os.FileInfo) (int64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int64(st.Atim.Sec), true
}
