package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

const minFreeBytes = 100 << 20 // 100 MiB

type readinessCheck struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
	Msg  string `json:"msg,omitempty"`
}

// handleReadiness reports whether the service can currently accept uploads:
// both storage directories must be reachable and the volume backing
// deep_storage_dir must have headroom left. This is ambient infrastructure
// the original design has no equivalent for — a Kubernetes-style readiness
// probe belongs to any long-running HTTP service regardless of domain.
func (s *Service) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	var checks []readinessCheck
	allOK := true

	for _, dir := range []string{s.cfg.LowStorageDir, s.cfg.DeepStorageDir} {
		if _, err := os.Stat(dir); err != nil {
			checks = append(checks, readinessCheck{"storage_accessible:" + dir, false, "stat failed"})
			allOK = false
		} else {
			checks = append(checks, readinessCheck{"storage_accessible:" + dir, true, ""})
		}
	}

	if avail, total := diskStats(s.cfg.DeepStorageDir); total > 0 {
		if avail < minFreeBytes {
			checks = append(checks, readinessCheck{"disk_space", false,
				fmt.Sprintf("%d MB free, need %d MB", avail>>20, uint64(minFreeBytes)>>20)})
			allOK = false
		} else {
			checks = append(checks, readinessCheck{"disk_space", true,
				fmt.Sprintf("%d MB free of %d MB", avail>>20, total>>20)})
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"ready": allOK, "checks": checks}) //nolint:errcheck
}
