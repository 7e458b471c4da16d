package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, logFile := setupLogging(dir, false, slog.LevelDebug)
	if logFile != nil {
		t.Error("Expected nil log file when debug=false")
		logFile.Close()
	}

	if log.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected logger to discard every level")
	}
	if slog.Default().Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected default slog logger to discard")
	}
	if gg.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected gg logger to discard")
	}

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected no logs directory without debug")
	}
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, logFile := setupLogging(dir, true, slog.LevelDebug)
	if logFile == nil {
		t.Fatal("Expected non-nil log file when debug=true")
	}
	defer logFile.Close()
	defer setupLogging(dir, false, slog.LevelDebug)

	logPath := filepath.Join(dir, logFileName)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatal("Expected log file to be created")
	}

	log.Debug("test log message")

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat log file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected log file to contain content")
	}
	if gg.Logger() != log {
		t.Error("Expected gg to share the file logger")
	}
}

func TestSetupLogging_Level(t *testing.T) {
	dir := t.TempDir()
	log, logFile := setupLogging(dir, true, slog.LevelWarn)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer setupLogging(dir, false, slog.LevelDebug)

	if log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be filtered at warn level")
	}
	if !log.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Expected warn to be enabled")
	}
}

func TestSetupLogging_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)

	// Write just over 10MB
	data := make([]byte, maxLogSize+1)
	if err := os.WriteFile(logPath, data, 0o644); err != nil {
		t.Fatalf("Failed to write large log file: %v", err)
	}

	_, logFile := setupLogging(dir, true, slog.LevelDebug)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer setupLogging(dir, false, slog.LevelDebug)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs directory: %v", err)
	}
	rotatedFound := false
	for _, entry := range entries {
		if entry.Name() != logFileName && filepath.Ext(entry.Name()) == ".log" {
			rotatedFound = true
			break
		}
	}
	if !rotatedFound {
		t.Error("Expected to find rotated log file")
	}

	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("Failed to stat new log file: %v", err)
	}
	if info.Size() > maxLogSize {
		t.Errorf("Expected new log file to be smaller than %d bytes, got %d", maxLogSize, info.Size())
	}
}

func TestSetupLogging_NoStdoutStderr(t *testing.T) {
	dir := t.TempDir()
	_, logFile := setupLogging(dir, true, slog.LevelDebug)
	if logFile == nil {
		t.Fatal("Expected non-nil log file")
	}
	defer logFile.Close()
	defer setupLogging(dir, false, slog.LevelDebug)

	if logFile == os.Stdout || logFile == os.Stderr {
		t.Error("Log output should not be stdout or stderr")
	}
	if logFile.Name() != filepath.Join(dir, logFileName) {
		t.Errorf("Unexpected log file %s", logFile.Name())
	}
}
