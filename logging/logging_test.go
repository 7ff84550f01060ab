package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseLevel tests level string mapping with the info default
func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" info ":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestSetupEmptyPath tests the noop logger path
func TestSetupEmptyPath(t *testing.T) {
	log, closer, err := Setup("", "debug")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer closer()
	// Must be callable without side effects
	log.Info("discarded", "k", "v")
	log.Error("also discarded")
}

// TestSetupWritesFile tests records land in the file and level
// filtering applies
func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rain.log")
	log, closer, err := Setup(path, "warn")
	if err != nil {
		t.Fatalf("Expected setup to succeed, got %v", err)
	}

	log.Info("filtered out")
	log.Warn("kept", "reason", "test")
	closer()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	body := string(data)
	if strings.Contains(body, "filtered out") {
		t.Error("Expected info record filtered at warn level")
	}
	if !strings.Contains(body, "kept") || !strings.Contains(body, "reason=test") {
		t.Errorf("Expected warn record in file, got %q", body)
	}
}

// TestNewNopDiscards tests the nop logger never enables any level
func TestNewNopDiscards(t *testing.T) {
	log := NewNop()
	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")
	log.With("k", "v").Info("e")
}
