package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/zynqcloud/vaultstore/internal/asynclog"
	"github.com/zynqcloud/vaultstore/internal/cleanup"
	"github.com/zynqcloud/vaultstore/internal/config"
	"github.com/zynqcloud/vaultstore/internal/httpapi"
	"github.com/zynqcloud/vaultstore/internal/metadata"
)

const (
	storageConfigPath    = "./Storage.conf"
	logConfigPath        = "./log_config.conf"
	maxConcurrentUploads = 64
	tempDownloadDir      = "./temp_download"
	tempDownloadTTL      = 24 * time.Hour
	tempDownloadSweep    = 1 * time.Hour
	rollingLogDir        = "./logs"

	// rollingLogMaxBytesPerFile is the rotation size for the rolling file
	// sink. This is deliberately independent of log_config.conf's
	// threshold field, which only governs ring-buffer growth and has no
	// bearing on how large a single log file should be allowed to grow.
	rollingLogMaxBytesPerFile = 64 << 20
)

func main() {
	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(bootLogger)

	storageCfg, err := config.LoadStorage(storageConfigPath)
	if err != nil {
		bootLogger.Error("configuration error", "err", err)
		os.Exit(1)
	}
	logCfg, err := config.LoadLog(logConfigPath)
	if err != nil {
		bootLogger.Error("configuration error", "err", err)
		os.Exit(1)
	}

	logger, taskPool := buildLogger(logCfg)
	// Deferred calls run last-in first-out: the pool's Stop is registered
	// first so that it runs after logger.Close.
	if taskPool != nil {
		defer taskPool.Stop()
	}
	defer logger.Close()

	store, err := metadata.Open(storageCfg.StorageInfoPath)
	if err != nil {
		bootLogger.Error("failed to open metadata store", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// Root context — cancelled when a shutdown signal arrives. The temp
	// download sweeper receives this context so it stops cleanly without
	// needing its own signal wiring.
	ctx, cancel := context.WithCancel(context.Background())

	cleanupDone := cleanup.RunPeriodic(ctx, tempDownloadDir, tempDownloadTTL, tempDownloadSweep,
		slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	srv := &http.Server{
		Addr:    storageCfg.ServerIP + ":" + strconv.Itoa(storageCfg.ServerPort),
		Handler: httpapi.New(storageCfg, store, logger, maxConcurrentUploads),
		// ReadHeaderTimeout closes Slowloris: a client that never finishes
		// sending headers holds a goroutine until this fires.
		ReadHeaderTimeout: 10 * time.Second,
		// Large uploads/downloads can legitimately run for a long time;
		// ReadTimeout/WriteTimeout stay disabled — any outer bound belongs to
		// a reverse proxy in front of this process.
		ReadTimeout:  0,
		WriteTimeout: 0,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		bootLogger.Info("vaultstore starting",
			"addr", srv.Addr,
			"low_storage_dir", storageCfg.LowStorageDir,
			"deep_storage_dir", storageCfg.DeepStorageDir,
			"max_concurrent_uploads", maxConcurrentUploads,
		)
		logger.Info("cmd/server/main.go", 0, "listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			bootLogger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// shutdownSignals is defined in signals.go (os.Interrupt) and extended by
	// signals_unix.go (+ SIGTERM) via build tags — no OS-specific imports here.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	bootLogger.Info("shutdown signal received — draining connections")

	// Cancel the root context first so the cleanup sweeper stops accepting
	// new passes before the HTTP server drains.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bootLogger.Error("graceful shutdown failed", "err", err)
	}

	<-cleanupDone
	bootLogger.Info("vaultstore stopped")
}

// buildLogger assembles the asynclog.Logger the whole service shares,
// wiring log_config.conf's buffer/flush/backup settings into a
// LoggerBuilder; the rolling sink's rotation size is
// rollingLogMaxBytesPerFile. The returned TaskPool (nil if backup shipping is disabled)
// must be stopped after the logger itself is closed.
func buildLogger(cfg config.Log) (*asynclog.Logger, *asynclog.TaskPool) {
	if err := os.MkdirAll(rollingLogDir, 0o750); err != nil {
		os.Stderr.WriteString("failed to create log directory: " + err.Error() + "\n")
	}

	flushLevel := asynclog.FlushLevel(cfg.FlushLog)
	sink, err := asynclog.NewRollingFileSink(rollingLogDir, rollingLogMaxBytesPerFile, flushLevel)
	if err != nil {
		os.Stderr.WriteString("failed to open rolling file sink, falling back to stdout: " + err.Error() + "\n")
		sink = asynclog.NewStdoutSink()
	}

	builder := asynclog.NewLoggerBuilder("vaultstore").
		WithSink(sink).
		WithBuffer(asynclog.BufferConfig{
			InitialSize:  cfg.BufferSize,
			Threshold:    cfg.Threshold,
			LinearGrowth: cfg.LinearGrowth,
		})

	var pool *asynclog.TaskPool
	if cfg.BackupAddr != "" {
		workers := int(cfg.ThreadCount)
		if workers < 1 {
			workers = 1
		}
		pool = asynclog.NewTaskPool(workers, 256)
		builder = builder.WithBackup(pool, cfg.BackupAddr, cfg.BackupPort)
	}

	return builder.Build(), pool
}
