package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWithLevel_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oulia.log")

	l, level, err := NewLoggerWithLevel(Config{Level: "warn", Format: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("NewLoggerWithLevel: %v", err)
	}
	l.Info("hidden")
	level.SetLevel(zapcore.InfoLevel)
	l.Info("visible")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("info line written while level was warn")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, `"service":"oulia"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	_, level, err := NewLoggerWithLevel(Config{Level: "loud", OutputPath: "stderr"})
	if err != nil {
		t.Fatal(err)
	}
	if level.Level() != zapcore.InfoLevel {
		t.Errorf("level = %s, want info", level.Level())
	}
}
