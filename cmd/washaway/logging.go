package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/gg"
)

const (
	logFileName = "washaway.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging opens dir/washaway.log at level when debug is set and installs the
// logger for slog and gg. The terminal belongs to tcell, so without debug logs are
// discarded. The returned file is nil when logging is disabled
func setupLogging(dir string, debug bool, level slog.Level) (*slog.Logger, *os.File) {
	if !debug {
		log := slog.New(slog.DiscardHandler)
		slog.SetDefault(log)
		gg.SetLogger(nil)
		return log, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create log directory: %v\n", err)
		return slog.New(slog.DiscardHandler), nil
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("washaway_%s.log", time.Now().Format("20060102_150405")))
		if err := os.Rename(path, rotated); err != nil {
			fmt.Fprintf(os.Stderr, "rotate log file: %v\n", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		return slog.New(slog.DiscardHandler), nil
	}

	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	gg.SetLogger(log)
	log.Info("logging started", "pid", os.Getpid())
	return log, f
}
