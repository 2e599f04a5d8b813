package asynclog

import (
	"fmt"
	"os"
	"time"
)

// systemOps is the syscall capability seam used by the file sinks. Production
// binds realSystemOps; tests bind a fake so sink failures (open/write/sync
// errors) are observable without touching the real filesystem. Mirrors the
// original design's ISystemOps/RSystemOps split.
type systemOps interface {
	openAppend(path string) (*os.File, error)
	write(f *os.File, data []byte) (int, error)
	flush(f *os.File) error
	sync(f *os.File) error
	close(f *os.File) error
	mkdirAll(path string) error
	now() int64 // unix seconds, used for rotation filename timestamps
}

type realSystemOps struct{}

func (realSystemOps) openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
}

func (realSystemOps) write(f *os.File, data []byte) (int, error) { return f.Write(data) }

// flush escalates from the process' write buffer to the kernel page cache.
// Go's os.File.Write has no user-space buffer to flush (unlike C's FILE*
// streams the original design wraps), so this is a no-op that exists only
// to keep the flush_log==1 escalation step representable and testable via
// the fake systemOps.
func (realSystemOps) flush(f *os.File) error { return nil }

func (realSystemOps) sync(f *os.File) error { return f.Sync() }

func (realSystemOps) close(f *os.File) error { return f.Close() }

func (realSystemOps) mkdirAll(path string) error { return os.MkdirAll(path, 0o750) }

func (realSystemOps) now() int64 { return time.Now().Unix() }

// fakeSystemOps is an in-memory systemOps used by sink tests to exercise
// open/write/flush/sync failures without touching the real filesystem.
type fakeSystemOps struct {
	failOpen  bool
	failWrite bool
	failFlush bool
	failSync  bool
	writes    [][]byte
	perrors   []string
	clock     int64
}

func (f *fakeSystemOps) openAppend(path string) (*os.File, error) {
	if f.failOpen {
		return nil, fmt.Errorf("fake: open %q failed", path)
	}
	// A non-nil placeholder: the sinks treat a nil file as "not opened yet".
	// The fake never calls methods on it.
	return new(os.File), nil
}

func (f *fakeSystemOps) write(_ *os.File, data []byte) (int, error) {
	if f.failWrite {
		return 0, fmt.Errorf("fake: write failed")
	}
	f.writes = append(f.writes, append([]byte(nil), data...))
	return len(data), nil
}

func (f *fakeSystemOps) flush(*os.File) error {
	if f.failFlush {
		return fmt.Errorf("fake: flush failed")
	}
	return nil
}

func (f *fakeSystemOps) sync(*os.File) error {
	if f.failSync {
		return fmt.Errorf("fake: fsync failed")
	}
	return nil
}

func (f *fakeSystemOps) close(*os.File) error { return nil }

func (f *fakeSystemOps) mkdirAll(string) error { return nil }

func (f *fakeSystemOps) now() int64 {
	f.clock++
	return f.clock
}
