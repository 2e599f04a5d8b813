package httpapi

import (
	"encoding/base64"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/zynqcloud/vaultstore/internal/fileops"
	"github.com/zynqcloud/vaultstore/internal/metadata"
)

const (
	storageTypeLow  = "low"
	storageTypeDeep = "deep"

	// zstdUploadLevel mirrors the original design's fixed compress(body, 3)
	// call; klauspost's zstd encoder picks its own parameters internally and
	// does not expose a numeric level knob, so this constant exists only to
	// document the original's choice for readers comparing the two designs.
	zstdUploadLevel = 3
)

// handleUpload implements §4.8.1: decode the FileName/StorageType headers,
// write (or compress-then-write) the body under the matching storage root,
// persist its StorageInfo, and reply 200.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		s.metrics.UploadsFailed.Add(1)
		http.Error(w, "empty or unreadable body", http.StatusBadRequest)
		return
	}

	encodedName := r.Header.Get("FileName")
	nameBytes, err := base64.StdEncoding.DecodeString(encodedName)
	if err != nil || len(nameBytes) == 0 {
		s.metrics.UploadsFailed.Add(1)
		http.Error(w, "invalid FileName header", http.StatusBadRequest)
		return
	}
	filename := filepath.Base(string(nameBytes))

	storageType := r.Header.Get("StorageType")
	if storageType != storageTypeLow && storageType != storageTypeDeep {
		s.metrics.UploadsFailed.Add(1)
		http.Error(w, `StorageType must be "low" or "deep"`, http.StatusBadRequest)
		return
	}

	dir := s.cfg.LowStorageDir
	if storageType == storageTypeDeep {
		dir = s.cfg.DeepStorageDir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		s.metrics.UploadsFailed.Add(1)
		http.Error(w, "failed to prepare storage directory", http.StatusInternalServerError)
		return
	}

	storagePath := filepath.Join(dir, filename)
	f := fileops.New(storagePath, s.compressor)

	if storageType == storageTypeDeep {
		if err := f.Compress(body, zstdUploadLevel); err != nil {
			s.logError("upload: compress %q: %v", storagePath, err)
			s.metrics.UploadsFailed.Add(1)
			http.Error(w, "failed to store file", http.StatusInternalServerError)
			return
		}
		s.metrics.CompressedBytesIn.Add(int64(len(body)))
		s.metrics.CompressedBytesOut.Add(f.Size())
	} else {
		if err := f.WriteAll(body); err != nil {
			s.logError("upload: write %q: %v", storagePath, err)
			s.metrics.UploadsFailed.Add(1)
			http.Error(w, "failed to store file", http.StatusInternalServerError)
			return
		}
	}

	info := metadata.StorageInfo{
		URL:            s.cfg.DownloadPrefix + f.Basename(),
		StoragePath:    storagePath,
		ATime:          f.Atime(),
		MTime:          f.Mtime(),
		Size:           f.Size(),
		DownloadPrefix: s.cfg.DownloadPrefix,
	}
	if err := s.meta.Insert(r.Context(), info); err != nil {
		s.logError("upload: insert metadata for %q: %v", storagePath, err)
		s.metrics.UploadsFailed.Add(1)
		http.Error(w, "failed to record file metadata", http.StatusInternalServerError)
		return
	}

	s.metrics.UploadsTotal.Add(1)
	s.metrics.BytesWritten.Add(int64(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Success")) //nolint:errcheck
}

func (s *Service) logError(format string, args ...any) {
	s.logger.Error("httpapi", 0, format, args...)
}
