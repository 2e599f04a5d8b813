//go:build !linux && !darwin

package fileops

import "os"

// statAtime is not implemented on platforms without a unix-style Stat_t;
// callers fall back to Mtime.
func statAtime(_ os.FileInfo) (int64, bool) { return 0, false }
