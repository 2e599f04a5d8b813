// Package fileops gives each stored file a small value-object handle over
// metadata, positional reads, atomic whole-file writes and compression —
// the filesystem primitives the HTTP layer and metadata store build on.
package fileops

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FileOps binds operations to one filesystem path. It carries no file
// descriptor of its own: every call opens, does its work, and closes, which
// keeps the type trivially safe to pass around and copy.
type FileOps struct {
	path       string
	compressor Compressor
}

// New returns a FileOps bound to path using the given Compressor for
// Compress/Decompress. A nil compressor is replaced with NewZstdCompressor.
func New(path string, compressor Compressor) FileOps {
	if compressor == nil {
		compressor = NewZstdCompressor()
	}
	return FileOps{path: path, compressor: compressor}
}

// Path returns the bound filesystem path.
func (f FileOps) Path() string { return f.path }

// Basename returns the final path element.
func (f FileOps) Basename() string { return filepath.Base(f.path) }

// Size returns the file's byte length, or -1 if it cannot be stat'd.
func (f FileOps) Size() int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// Mtime returns the file's modification time as a Unix timestamp, or -1 on
// error.
func (f FileOps) Mtime() int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return -1
	}
	return info.ModTime().Unix()
}

// Atime returns the file's last-access time as a Unix timestamp, or -1 on
// error. Go's os.FileInfo exposes no portable atime, so this reads the
// platform-specific Sys() value; platforms where that fails fall back to
// Mtime, matching common "noatime" mount behavior rather than failing an
// operation that has nothing to do with write correctness.
func (f FileOps) Atime() int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return -1
	}
	if at, ok := statAtime(info); ok {
		return at
	}
	return info.ModTime().Unix()
}

// Exists reports whether the bound path exists.
func (f FileOps) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// CreateDir makes the bound path as a directory, including any missing
// parents. It is idempotent: an already-existing directory is not an error.
func (f FileOps) CreateDir() error {
	return os.MkdirAll(f.path, 0o750)
}

// ScanDir lists the basenames of every regular file directly under the
// bound path (no recursion, no subdirectories).
func (f FileOps) ScanDir() ([]string, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadAll reads the whole file into memory.
func (f FileOps) ReadAll() ([]byte, error) {
	return os.ReadFile(f.path)
}

// ReadAt reads up to len(buf) bytes starting at pos, returning the slice
// actually filled. It reports an error for len(buf)==0, pos<0, a missing
// file, or a short read that returns zero bytes — mirroring the original
// design's "clear EOF, seek, read, truncate to actual count" contract with
// io.ReaderAt's single-call semantics standing in for the seek+read pair.
func (f FileOps) ReadAt(buf []byte, pos int64) ([]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("fileops: ReadAt requires a non-empty buffer")
	}
	if pos < 0 {
		return nil, fmt.Errorf("fileops: ReadAt requires pos >= 0, got %d", pos)
	}
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	n, err := file.ReadAt(buf, pos)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, fmt.Errorf("fileops: ReadAt returned 0 bytes: %w", err)
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// WriteAll truncates the bound path and writes data atomically: it writes to
// a sibling temp file and renames it into place, so a reader never observes
// a partially-written file.
func (f FileOps) WriteAll(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("fileops: create parent dir: %w", err)
	}

	tmp := f.path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("fileops: open temp file: %w", err)
	}

	_, werr := out.Write(data)
	cerr := out.Close()
	if werr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("fileops: write: %w", werr)
	}
	if cerr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("fileops: close temp file: %w", cerr)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("fileops: rename into place: %w", err)
	}
	return nil
}

// Compress compresses content and writes it to the bound path via WriteAll.
// level is accepted for interface parity with the original design's
// compress(content, level) signature; the zstd Compressor picks its own
// encoder parameters and ignores it.
func (f FileOps) Compress(content []byte, level int) error {
	compressed, err := f.compressor.Compress(content)
	if err != nil {
		return fmt.Errorf("fileops: compress: %w", err)
	}
	return f.WriteAll(compressed)
}

// Decompress reads the bound path, decompresses it, and writes the result to
// destPath (also via WriteAll, so the destination write is atomic too).
func (f FileOps) Decompress(destPath string) error {
	raw, err := f.ReadAll()
	if err != nil {
		return fmt.Errorf("fileops: read compressed source: %w", err)
	}
	plain, err := f.compressor.Decompress(raw)
	if err != nil {
		return fmt.Errorf("fileops: decompress: %w", err)
	}
	return New(destPath, f.compressor).WriteAll(plain)
}
