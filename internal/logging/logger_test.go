package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"comicwebp/internal/config"
	"comicwebp/internal/logging"
	"comicwebp/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, closeLogs, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")
	if err := closeLogs(); err != nil {
		t.Fatalf("close logs: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "comicwebp.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestOpenCloseReleasesLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "run.log")
	logger, closeLogs, err := logging.Open(logging.Options{Format: "json", Level: "info", OutputPaths: []string{"stderr", logPath}})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	logger.Info("before close")
	if err := closeLogs(); err != nil {
		t.Fatalf("close logs: %v", err)
	}
	if err := closeLogs(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "before close") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "convert").Info("page converted",
		logging.String(logging.FieldFile, "its a book 01.jpg"),
		logging.Int(logging.FieldExitCode, 0),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "INFO [convert] page converted") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, `file="its a book 01.jpg"`) {
		t.Fatalf("expected quoted file field, got %q", line)
	}
	if !strings.Contains(line, "exit_code=0") {
		t.Fatalf("expected exit code field, got %q", line)
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source location at info level, got %q", line)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with source")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected source location in debug logs, got %q", content)
	}
}

func TestLevelThresholdDropsLowerRecords(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "dropped") || !strings.Contains(string(content), "kept") {
		t.Fatalf("unexpected filtering result %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithStage(ctx, "extract")
	logging.WithContext(ctx, logger).Info("extracting")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(content, &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record["run_id"] != "run-1" || record["stage"] != "extract" {
		t.Fatalf("missing context fields: %v", record)
	}
	if record["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.WithContext(context.Background(), nil).Info("ignored")
}
