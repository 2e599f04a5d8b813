package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadStorageValid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Storage.conf", `{
		"server_port": 8080,
		"server_ip": "0.0.0.0",
		"download_prefix": "/download/",
		"deep_storage_dir": "/data/deep",
		"low_storage_dir": "/data/low",
		"storage_info": "/data/meta.db"
	}`)

	s, err := LoadStorage(path)
	if err != nil {
		t.Fatalf("LoadStorage: %v", err)
	}
	if s.ServerPort != 8080 || s.ServerIP != "0.0.0.0" {
		t.Fatalf("unexpected storage config: %+v", s)
	}
}

func TestLoadStorageRejectsMissingField(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Storage.conf", `{
		"server_port": 8080,
		"server_ip": "0.0.0.0",
		"download_prefix": "/download/",
		"deep_storage_dir": "/data/deep",
		"low_storage_dir": "/data/low"
	}`)

	if _, err := LoadStorage(path); err == nil {
		t.Fatal("expected error for missing storage_info field")
	}
}

func TestLoadStorageRejectsZeroPort(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Storage.conf", `{
		"server_port": 0,
		"server_ip": "0.0.0.0",
		"download_prefix": "/download/",
		"deep_storage_dir": "/data/deep",
		"low_storage_dir": "/data/low",
		"storage_info": "/data/meta.db"
	}`)

	if _, err := LoadStorage(path); err == nil {
		t.Fatal("expected error for zero server_port")
	}
}

func TestLoadLogDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadLog(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("LoadLog: %v", err)
	}
	want := defaultLog()
	if cfg != want {
		t.Fatalf("LoadLog = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadLogPartialOverridesKeepOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log_config.conf", `{"flush_log": 2, "backup_port": 9090}`)

	cfg, err := LoadLog(path)
	if err != nil {
		t.Fatalf("LoadLog: %v", err)
	}
	if cfg.FlushLog != 2 || cfg.BackupPort != 9090 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	want := defaultLog()
	if cfg.BufferSize != want.BufferSize || cfg.Threshold != want.Threshold || cfg.BackupAddr != want.BackupAddr {
		t.Fatalf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestLoadLogRejectsInvalidFlushLevel(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "log_config.conf", `{"flush_log": 3}`)

	if _, err := LoadLog(path); err == nil {
		t.Fatal("expected error for out-of-range flush_log")
	}
}
