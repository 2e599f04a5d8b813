package httpapi

import (
	"strconv"
	"strings"
)

// byteRange is a resolved, inclusive [start, end] span. Unranged requests
// are represented as {0, fileSize-1, ranged: false}.
type byteRange struct {
	start  int64
	end    int64
	ranged bool
}

// parseRange reads a "bytes=<start>-<end?>" Range header. Any other form —
// multiple ranges, a unit other than bytes, a missing start — is ignored
// and treated as a non-ranged request, matching the original design's
// narrow single-range support.
func parseRange(header string, fileSize int64) byteRange {
	full := byteRange{start: 0, end: fileSize - 1, ranged: false}
	if header == "" {
		return full
	}
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return full
	}
	spec := header[len(prefix):]
	if strings.Contains(spec, ",") {
		return full // multi-range requests are ignored, not supported
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return full
	}
	startStr, endStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if startStr == "" {
		return full
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return full
	}

	end := fileSize - 1
	if endStr != "" {
		e, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || e < start {
			return full
		}
		end = e
	}
	return byteRange{start: start, end: end, ranged: true}
}

// etag renders the deterministic "<basename>-<size>-<mtime>" identifier.
func etag(basename string, size, mtime int64) string {
	return basename + "-" + strconv.FormatInt(size, 10) + "-" + strconv.FormatInt(mtime, 10)
}
