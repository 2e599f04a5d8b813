// Package httpapi implements the object storage HTTP surface: upload,
// download (with RFC 7233 range support) and an HTML listing page, routed
// by URL path substring rather than a conventional router.
package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/zynqcloud/vaultstore/internal/asynclog"
	"github.com/zynqcloud/vaultstore/internal/config"
	"github.com/zynqcloud/vaultstore/internal/fileops"
	"github.com/zynqcloud/vaultstore/internal/metadata"
)

// tempDownloadDir is where deep-tier files are transiently decompressed
// before being streamed to the client.
const tempDownloadDir = "./temp_download"

// listTemplatePath is the HTML shell substituted with {{FILE_LIST}} and
// {{BACKEND_URL}} for the root listing page.
const listTemplatePath = "./index.html"

// Service wires the storage config, metadata store and compressor into the
// three routes the original design names: download, upload, list.
type Service struct {
	cfg        *config.Storage
	meta       *metadata.Store
	logger     *asynclog.Logger
	compressor fileops.Compressor
	metrics    *Metrics
	limiter    *uploadLimiter
}

// New builds the Service and wraps it with access-log middleware. cfg,
// meta and logger must be non-nil; maxConcurrentUploads <= 0 uses a
// built-in default.
func New(cfg *config.Storage, meta *metadata.Store, logger *asynclog.Logger, maxConcurrentUploads int) http.Handler {
	s := &Service{
		cfg:        cfg,
		meta:       meta,
		logger:     logger,
		compressor: fileops.NewZstdCompressor(),
		metrics:    &Metrics{},
		limiter:    newUploadLimiter(maxConcurrentUploads),
	}
	os.MkdirAll(tempDownloadDir, 0o750) //nolint:errcheck

	return accessLog(logger)(s)
}

// ServeHTTP dispatches by URL path substring, exactly as the original
// design specifies: /download/... is downloads, any path containing
// "upload" is an upload, exactly "/" is the listing page, everything else
// is 404. The two ambient observability endpoints are checked first since
// neither would otherwise match any of those three branches.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		s.handleReadiness(w, r)
		return
	case "/metrics":
		s.metrics.handler(s.limiter.active)(w, r)
		return
	}

	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/download/"):
		s.handleDownload(w, r)
	case strings.Contains(path, "upload"):
		s.limiter.limit(s.handleUpload)(w, r)
	case path == "/":
		s.handleList(w, r)
	default:
		http.NotFound(w, r)
	}
}
