// Package cleanup reclaims disk space from abandoned temp-download files.
//
// Every deep-tier download decompresses into a scratch file under
// temp_download/ before being streamed to the client and removed once the
// response finishes. A handler goroutine that panics or a process that gets
// killed mid-response leaves that scratch file behind indefinitely.
// RunPeriodic removes any file whose mtime is older than the configured TTL.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// TempDownloads scans dir and removes regular files older than ttl. It is
// safe to call while downloads are in flight: a file only qualifies once its
// mtime pre-dates the cutoff, so a scratch file still being written (and
// therefore recently modified) is left untouched.
func TempDownloads(dir string, ttl time.Duration, logger *slog.Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cleanup: readdir failed", "dir", dir, "err", err)
		}
		return
	}

	cutoff := time.Now().Add(-ttl)
	var removed int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, e.Name())
			age := time.Since(info.ModTime()).Round(time.Minute)
			if err := os.Remove(path); err != nil {
				logger.Warn("cleanup: remove failed", "file", e.Name(), "err", err)
			} else {
				removed++
				logger.Info("cleanup: removed stale temp download", "file", e.Name(), "age", age)
			}
		}
	}
	if removed > 0 {
		logger.Info("cleanup: cycle complete", "removed", removed)
	}
}

// RunPeriodic starts a background goroutine that calls TempDownloads on every
// interval until ctx is cancelled, returning a channel closed once the
// goroutine has exited so callers can wait for its current pass to finish
// during shutdown. A first pass runs immediately at startup to flush files
// left over from a previous crash or restart.
func RunPeriodic(ctx context.Context, dir string, ttl, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		TempDownloads(dir, ttl, logger)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				TempDownloads(dir, ttl, logger)
			case <-ctx.Done():
				return
			}
		}
	}()
	return done
}
