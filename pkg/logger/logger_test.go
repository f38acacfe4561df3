package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	// Test default logger creation
	logger := NewDefault()
	if logger == nil {
		t.Fatal("Failed to create default logger")
	}

	logger.Info("test message",
		"nodeType", "Core",
		"bands", 6,
	)

	contextLogger := logger.Named("silo").With(
		"requestID", "123",
	)
	contextLogger.Info("test with context")

	logger.Debug("debug message")
	logger.Warn("warning message")
	logger.Error("error message")
}

func TestLoggerJSONFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tata.log")
	logger, err := New(&Config{Level: "warn", OutputPath: out, Format: "json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("dropped below level")
	logger.Warn("band updated", "bandId", "database")
	_ = logger.Sync()

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "dropped below level") {
		t.Errorf("info message written at warn level: %s", content)
	}
	if !strings.Contains(string(content), `"bandId":"database"`) {
		t.Errorf("expected structured field in output, got %s", content)
	}
}

func TestLoggerInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(&Config{Level: "verbose", OutputPath: "stdout", Format: "console"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !logger.Desugar().Core().Enabled(0) {
		t.Error("expected info level to be enabled")
	}
}
