package asynclog

import (
	"bytes"
	"runtime"
	"strconv"
	"time"
)

// Record is an immutable log entry produced by a single Logger call.
// Serialized form: [YYYY-MM-DD HH:MM:SS][TID][LEVEL][name][file:line]\tpayload\n
type Record struct {
	Timestamp  time.Time
	ThreadID   uint64
	Level      Level
	LoggerName string
	SourceFile string
	SourceLine int
	Payload    string
}

// Serialize renders the record into the wire format consumed by every sink.
func (r Record) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(len(r.Payload) + len(r.SourceFile) + len(r.LoggerName) + 48)

	buf.WriteByte('[')
	buf.WriteString(r.Timestamp.Format("2006-01-02 15:04:05"))
	buf.WriteString("][")
	buf.WriteString(strconv.FormatUint(r.ThreadID, 10))
	buf.WriteString("][")
	buf.WriteString(r.Level.String())
	buf.WriteString("][")
	buf.WriteString(r.LoggerName)
	buf.WriteString("][")
	buf.WriteString(r.SourceFile)
	buf.WriteByte(':')
	buf.WriteString(strconv.Itoa(r.SourceLine))
	buf.WriteString("]\t")
	buf.WriteString(r.Payload)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// goroutineID extracts the runtime-assigned goroutine id from the current
// stack trace. Go has no portable OS-thread identity to put in the [TID]
// field the way the original C++ design used std::thread::id — the
// goroutine id serves the same correlation purpose (distinguishing
// concurrent callers in the log stream) without depending on unexported
// runtime internals beyond parsing runtime.Stack's documented header line.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Header line is "goroutine 123 [running]:"
	b := buf[:n]
	const prefix = "goroutine "
	if len(b) <= len(prefix) || string(b[:len(prefix)]) != prefix {
		return 0
	}
	b = b[len(prefix):]
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	id, err := strconv.ParseUint(string(b[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
