package asynclog

import (
	"bytes"
	"testing"
)

func TestFileSinkWritesAndFlushes(t *testing.T) {
	ops := &fakeSystemOps{}
	sink, err := newFileSinkWithOps("/fake/app.log", FlushKernel, ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.Flush([]byte("hello\n"))
	sink.Flush([]byte("world\n"))

	var got []byte
	for _, w := range ops.writes {
		got = append(got, w...)
	}
	if !bytes.Equal(got, []byte("hello\nworld\n")) {
		t.Fatalf("writes = %q, want %q", got, "hello\nworld\n")
	}
}

func TestFileSinkOpenFailureReturnsError(t *testing.T) {
	ops := &fakeSystemOps{failOpen: true}
	if _, err := newFileSinkWithOps("/fake/app.log", FlushNone, ops); err == nil {
		t.Fatal("expected error when open fails")
	}
}

func TestFileSinkWriteFailureDoesNotPanic(t *testing.T) {
	ops := &fakeSystemOps{failWrite: true}
	sink, err := newFileSinkWithOps("/fake/app.log", FlushDisk, ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sink.Flush([]byte("data")) // must not panic
}

func TestFileSinkFlushNoneDoesNotEscalate(t *testing.T) {
	ops := &fakeSystemOps{failFlush: true, failSync: true}
	sink, err := newFileSinkWithOps("/fake/app.log", FlushNone, ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// flush/fsync would report failure if called; FlushNone must never call them.
	sink.Flush([]byte("ok"))
}

func TestRollingFileSinkRotatesBySize(t *testing.T) {
	ops := &fakeSystemOps{}
	sink, err := newRollingFileSinkWithOps("/fake/logs", 10, FlushNone, ops)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs := sink.(*rollingFileSink)

	sink.Flush([]byte("12345")) // 5 bytes, file 1
	if rs.rotationCount() != 1 {
		t.Fatalf("rotationCount = %d, want 1", rs.rotationCount())
	}
	sink.Flush([]byte("67890")) // 10 bytes total == max, no rotation yet
	if rs.rotationCount() != 1 {
		t.Fatalf("rotationCount = %d, want 1 (at threshold, not over)", rs.rotationCount())
	}
	sink.Flush([]byte("x")) // pushes curSize to 11 — over threshold, but rotation is checked lazily
	if rs.rotationCount() != 1 {
		t.Fatalf("rotationCount = %d, want 1 (rotation is evaluated at the start of the next Flush)", rs.rotationCount())
	}
	sink.Flush([]byte("y")) // curSize(11) > max(10) detected now — rotates before writing
	if rs.rotationCount() != 2 {
		t.Fatalf("rotationCount = %d, want 2", rs.rotationCount())
	}
}

func TestRollingFileSinkNamesIncrementSeq(t *testing.T) {
	ops := &fakeSystemOps{}
	sink, _ := newRollingFileSinkWithOps("/fake/logs", 1, FlushNone, ops)
	rs := sink.(*rollingFileSink)

	first := rs.rotatedName()
	sink.Flush([]byte("a"))
	sink.Flush([]byte("b")) // no rotation: curSize(1) > max(1) is false; seq is already 2 after the first open
	second := rs.rotatedName()
	if first == second {
		t.Fatalf("expected rotated names to differ across sequence numbers, got %q twice", first)
	}
}
