package httpapi

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/zynqcloud/vaultstore/internal/metadata"
)

// handleList renders the root listing page: every known file as a card,
// substituted into the ./index.html template. Per the template contract, a
// missing placeholder is left as-is rather than an error.
func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.meta.GetAll(r.Context())
	if err != nil {
		s.logError("list: get all metadata: %v", err)
		http.Error(w, "failed to load file list", http.StatusInternalServerError)
		return
	}

	tmpl, err := os.ReadFile(listTemplatePath)
	if err != nil {
		s.logError("list: read template %q: %v", listTemplatePath, err)
		http.Error(w, "listing page unavailable", http.StatusInternalServerError)
		return
	}

	var cards strings.Builder
	for _, info := range records {
		cards.WriteString(s.fileCard(info))
	}

	page := string(tmpl)
	page = strings.ReplaceAll(page, "{{FILE_LIST}}", cards.String())
	page = strings.ReplaceAll(page, "{{BACKEND_URL}}", fmt.Sprintf("%s:%d", s.cfg.ServerIP, s.cfg.ServerPort))

	w.Header().Set("Content-Type", "text/html;charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page)) //nolint:errcheck
}

func (s *Service) fileCard(info metadata.StorageInfo) string {
	name := html.EscapeString(filepath.Base(info.StoragePath))
	tier := "low"
	if s.isDeepTier(info.StoragePath) {
		tier = "deep"
	}
	return fmt.Sprintf(
		`<div class="file-card"><span class="name">%s</span>`+
			`<span class="tier">%s</span><span class="size">%s</span>`+
			`<span class="mtime">%s</span>`+
			`<a class="download" href="%s">Download</a></div>`,
		name, tier, humanSize(info.Size), time.Unix(info.MTime, 0).UTC().Format(time.RFC3339),
		html.EscapeString(info.URL))
}

// byteUnits caps the table at GB, matching the original design's "unit
// index < 3" stopping condition rather than go-units' default table that
// continues through TB/PB/EB.
var byteUnits = []string{"B", "KB", "MB", "GB"}

// humanSize implements the original design's size-formatting algorithm:
// repeatedly divide by 1024 while the value is >= 1024 and the unit index
// hasn't reached GB, rendering two decimal places.
func humanSize(bytes int64) string {
	return units.CustomSize("%.2f %s", float64(bytes), 1024.0, byteUnits)
}
