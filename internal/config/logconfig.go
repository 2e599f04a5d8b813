package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Log is the typed view over log_config.conf. Unlike Storage, every field
// here is optional and defaulted — a missing or partial log_config.conf is
// a normal deployment, not a startup error.
type Log struct {
	BufferSize   uint64 `json:"buffer_size"`
	Threshold    uint64 `json:"threshold"`
	LinearGrowth uint64 `json:"linear_growth"`
	FlushLog     int    `json:"flush_log"`
	BackupAddr   string `json:"backup_addr"`
	BackupPort   int    `json:"backup_port"`
	ThreadCount  uint64 `json:"thread_count"`
}

func defaultLog() Log {
	return Log{
		BufferSize:   4 << 20,
		Threshold:    1024,
		LinearGrowth: 1 << 20,
		FlushLog:     1,
		BackupAddr:   "127.0.0.1",
		BackupPort:   8080,
		ThreadCount:  1,
	}
}

// LoadLog reads log_config.conf at path, filling any key the document omits
// (or the whole file, if it doesn't exist) with the documented defaults.
func LoadLog(path string) (Log, error) {
	cfg := defaultLog()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Log{}, fmt.Errorf("config: read %q: %w", path, err)
	}

	// Decode into a map first so an absent key keeps its default instead of
	// being overwritten with the JSON zero value.
	var raw2 map[string]json.RawMessage
	if err := json.Unmarshal(raw, &raw2); err != nil {
		return Log{}, fmt.Errorf("config: parse %q: %w", path, err)
	}

	set := func(key string, dst any) error {
		v, ok := raw2[key]
		if !ok {
			return nil
		}
		return json.Unmarshal(v, dst)
	}
	for key, dst := range map[string]any{
		"buffer_size":   &cfg.BufferSize,
		"threshold":     &cfg.Threshold,
		"linear_growth": &cfg.LinearGrowth,
		"flush_log":     &cfg.FlushLog,
		"backup_addr":   &cfg.BackupAddr,
		"backup_port":   &cfg.BackupPort,
		"thread_count":  &cfg.ThreadCount,
	} {
		if err := set(key, dst); err != nil {
			return Log{}, fmt.Errorf("config: %q field %q: %w", path, key, err)
		}
	}

	if cfg.FlushLog < 0 || cfg.FlushLog > 2 {
		return Log{}, fmt.Errorf("config: %q: flush_log must be 0, 1, or 2, got %d", path, cfg.FlushLog)
	}
	return cfg, nil
}
