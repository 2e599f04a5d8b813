package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/zynqcloud/vaultstore/internal/fileops"
)

// handleDownload implements §4.8.2. The original design had a latent bug
// here: once an error reply had been written, the handler kept executing
// and could write a second, conflicting response. Every error path below
// returns immediately after writing its reply; there is exactly one
// successful reply path at the end of the function.
func (s *Service) handleDownload(w http.ResponseWriter, r *http.Request) {
	info, ok, err := s.meta.GetByURL(r.Context(), r.URL.Path)
	if err != nil || !ok {
		s.metrics.DownloadsFailed.Add(1)
		http.Error(w, "unknown file", http.StatusBadRequest)
		return
	}

	servePath := info.StoragePath
	var cleanupTemp string
	if s.isDeepTier(info.StoragePath) {
		decompressed := filepath.Join(tempDownloadDir, filepath.Base(info.StoragePath))
		f := fileops.New(info.StoragePath, s.compressor)
		if err := f.Decompress(decompressed); err != nil {
			s.logError("download: decompress %q: %v", info.StoragePath, err)
			s.metrics.DownloadsFailed.Add(1)
			http.Error(w, "failed to prepare file", http.StatusInternalServerError)
			return
		}
		servePath = decompressed
		cleanupTemp = decompressed
	}
	if cleanupTemp != "" {
		defer os.Remove(cleanupTemp) //nolint:errcheck
	}

	stat, err := os.Stat(servePath)
	if err != nil {
		s.metrics.DownloadsFailed.Add(1)
		http.Error(w, "file not found", http.StatusBadRequest)
		return
	}
	fileSize := stat.Size()
	basename := filepath.Base(servePath)
	tag := etag(basename, fileSize, stat.ModTime().Unix())

	rng := parseRange(r.Header.Get("Range"), fileSize)
	if ifRange := r.Header.Get("If-Range"); ifRange != "" && ifRange != tag {
		rng = byteRange{start: 0, end: fileSize - 1, ranged: false}
	}

	if rng.start >= fileSize {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		s.metrics.DownloadsFailed.Add(1)
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}
	if rng.end > fileSize-1 {
		rng.end = fileSize - 1
	}
	contentLength := rng.end - rng.start + 1

	file, err := os.Open(servePath)
	if err != nil {
		s.metrics.DownloadsFailed.Add(1)
		http.Error(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	if _, err := file.Seek(rng.start, io.SeekStart); err != nil {
		s.metrics.DownloadsFailed.Add(1)
		http.Error(w, "failed to seek file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("ETag", tag)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, basename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", contentLength))

	if rng.ranged {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, fileSize))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	written, _ := io.CopyN(w, file, contentLength)
	s.metrics.DownloadsTotal.Add(1)
	s.metrics.BytesServed.Add(written)
}

// isDeepTier reports whether path lives under the configured deep storage
// root, the signal the original design uses to decide whether a download
// needs a decompression pass first.
func (s *Service) isDeepTier(path string) bool {
	rel, err := filepath.Rel(s.cfg.DeepStorageDir, path)
	return err == nil && !strings.HasPrefix(rel, "..")
}
