//go:build darwin

package fileops

import (
	"os"
	"syscall"
)

// statAtime extracts the last-access time from a Darwin Stat_t.
func statAtime(info os.FileInfo) (int64, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return int64(st.Atimespec.Sec), true
}
