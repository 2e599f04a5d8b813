//go:build linux

package httpapi

import "syscall"

// diskStats returns the available and total bytes on the filesystem that
// contains path, using Bavail (blocks available to unprivileged processes)
// rather than Bfree, so the readiness check reports the space this
// non-root service can actually use.
func diskStats(path string) (avail, total uint64) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, 0
	}
	bsize := uint64(st.Bsize)
	return st.Bavail * bsize, st.Blocks * bsize
}
