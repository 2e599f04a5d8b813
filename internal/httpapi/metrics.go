package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics holds process-lifetime atomic counters exposed at GET /metrics.
// All writes use atomic operations so there is no lock contention on the
// upload/download hot paths.
type Metrics struct {
	UploadsTotal    atomic.Int64
	UploadsFailed   atomic.Int64
	DownloadsTotal  atomic.Int64
	DownloadsFailed atomic.Int64
	BytesWritten    atomic.Int64
	BytesServed     atomic.Int64

	// CompressedBytesIn/Out track deep-tier uploads only, the way the
	// teacher's dedup metrics tracked bytes saved — here the saving comes
	// from zstd instead of content dedup.
	CompressedBytesIn  atomic.Int64
	CompressedBytesOut atomic.Int64
}

func (m *Metrics) handler(activeUploads func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		in, out := m.CompressedBytesIn.Load(), m.CompressedBytesOut.Load()
		ratio := 0.0
		if in > 0 {
			ratio = float64(out) / float64(in)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"uploads_total":        m.UploadsTotal.Load(),
			"uploads_failed":       m.UploadsFailed.Load(),
			"downloads_total":      m.DownloadsTotal.Load(),
			"downloads_failed":     m.DownloadsFailed.Load(),
			"bytes_written":        m.BytesWritten.Load(),
			"bytes_served":         m.BytesServed.Load(),
			"active_uploads":       activeUploads(),
			"compress_ratio":       ratio,
			"compressed_bytes_in":  in,
			"compressed_bytes_out": out,
		})
	}
}
