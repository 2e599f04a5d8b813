package fileops

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAllThenReadAllRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "data.bin"), nil)

	want := []byte("hello, storage")
	if err := f.WriteAll(want); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	got, err := f.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ReadAll = %q, want %q", got, want)
	}
	if f.Size() != int64(len(want)) {
		t.Fatalf("Size = %d, want %d", f.Size(), len(want))
	}
}

func TestWriteAllLeavesNoTempFileOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	f := New(path, nil)
	if err := f.WriteAll([]byte("x")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected no leftover temp file, stat err = %v", err)
	}
}

func TestSizeMtimeReturnNegativeOneForMissingFile(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "missing"), nil)
	if f.Size() != -1 {
		t.Fatalf("Size on missing file = %d, want -1", f.Size())
	}
	if f.Mtime() != -1 {
		t.Fatalf("Mtime on missing file = %d, want -1", f.Mtime())
	}
}

func TestBasename(t *testing.T) {
	f := New("/some/deep/path/report.txt", nil)
	if f.Basename() != "report.txt" {
		t.Fatalf("Basename = %q, want %q", f.Basename(), "report.txt")
	}
}

func TestReadAtReadsSubrangeAndTruncatesToActualCount(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "data.bin"), nil)
	if err := f.WriteAll([]byte("0123456789")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	buf := make([]byte, 4)
	got, err := f.ReadAt(buf, 8) // only 2 bytes left from offset 8
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != "89" {
		t.Fatalf("ReadAt = %q, want %q", got, "89")
	}
}

func TestReadAtRejectsInvalidArgs(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "data.bin"), nil)
	if err := f.WriteAll([]byte("abc")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	if _, err := f.ReadAt(nil, 0); err == nil {
		t.Fatal("expected error for empty buffer")
	}
	if _, err := f.ReadAt(make([]byte, 1), -1); err == nil {
		t.Fatal("expected error for negative pos")
	}
	if _, err := f.ReadAt(make([]byte, 1), 100); err == nil {
		t.Fatal("expected error for pos past EOF")
	}
}

func TestCompressDecompressRoundTrip(t *testing.T) {
	dir := t.TempDir()
	compressed := New(filepath.Join(dir, "data.zst"), NewZstdCompressor())

	original := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 50)
	if err := compressed.Compress(original, 3); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if compressed.Size() <= 0 {
		t.Fatal("expected compressed file to be non-empty")
	}

	destPath := filepath.Join(dir, "restored.bin")
	if err := compressed.Decompress(destPath); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	restored, err := New(destPath, nil).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll restored: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Fatal("decompressed content does not match original")
	}
}

func TestDecompressRejectsNonZstdInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-real-frame.zst")
	f := New(path, NewZstdCompressor())
	if err := f.WriteAll([]byte("definitely not a zstd frame")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := f.Decompress(filepath.Join(dir, "out.bin")); err == nil {
		t.Fatal("expected decompress of a non-zstd frame to fail")
	}
}

func TestExistsCreateDirScanDir(t *testing.T) {
	root := t.TempDir()
	sub := New(filepath.Join(root, "uploads"), nil)
	if sub.Exists() {
		t.Fatal("directory should not exist yet")
	}
	if err := sub.CreateDir(); err != nil {
		t.Fatalf("CreateDir: %v", err)
	}
	if !sub.Exists() {
		t.Fatal("directory should exist after CreateDir")
	}

	for _, name := range []string{"a.txt", "b.txt"} {
		if err := New(filepath.Join(root, "uploads", name), nil).WriteAll([]byte("x")); err != nil {
			t.Fatalf("seed file %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "uploads", "nested"), 0o750); err != nil {
		t.Fatalf("seed subdir: %v", err)
	}

	names, err := sub.ScanDir()
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Fatalf("ScanDir = %v, want [a.txt b.txt] (nested dir excluded)", names)
	}
}
