// Package config loads the service's two JSON configuration documents:
// Storage.conf (server topology and storage roots) and log_config.conf
// (asynclog tuning). Neither format warrants a third-party configuration
// framework — there are thirteen flat scalar keys between them and no
// env/flag overlay, file watching, or profile layering to justify one; the
// pack's own config-heavy examples (agilira/argus, flash-flags) sit in
// go.mod only as indirect dependencies of other libraries, never imported
// for a JSON document this small.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Storage is the typed view over Storage.conf. Every field is required —
// LoadStorage fails fast at startup rather than letting a zero value silently
// propagate into a route handler.
type Storage struct {
	ServerPort      int    `json:"server_port"`
	ServerIP        string `json:"server_ip"`
	DownloadPrefix  string `json:"download_prefix"`
	DeepStorageDir  string `json:"deep_storage_dir"`
	LowStorageDir   string `json:"low_storage_dir"`
	StorageInfoPath string `json:"storage_info"`
}

// LoadStorage reads and validates Storage.conf at path.
func LoadStorage(path string) (*Storage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var s Storage
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("config: %q: %w", path, err)
	}
	return &s, nil
}

func (s Storage) validate() error {
	switch {
	case s.ServerPort <= 0 || s.ServerPort > 65535:
		return fmt.Errorf("server_port must be in 1..65535, got %d", s.ServerPort)
	case s.ServerIP == "":
		return fmt.Errorf("server_ip is required")
	case s.DownloadPrefix == "":
		return fmt.Errorf("download_prefix is required")
	case s.DeepStorageDir == "":
		return fmt.Errorf("deep_storage_dir is required")
	case s.LowStorageDir == "":
		return fmt.Errorf("low_storage_dir is required")
	case s.StorageInfoPath == "":
		return fmt.Errorf("storage_info is required")
	}
	return nil
}
