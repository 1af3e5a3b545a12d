package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/tile-world/config"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")

	log, closer, err := New(config.LogConfig{File: path, Level: "debug", JSON: true, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.WithField("cell", "0|0").Debug("chunk created")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec); err != nil {
		t.Fatalf("Expected one JSON record, got %q", data)
	}
	if rec["msg"] != "chunk created" || rec["cell"] != "0|0" || rec["level"] != "debug" {
		t.Errorf("Unexpected record %v", rec)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")

	log, closer, err := New(config.LogConfig{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	closer.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("Expected only warn records, got %q", data)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %s", log.GetLevel())
	}
}

func TestNew_Discard(t *testing.T) {
	log, closer, err := New(config.LogConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("nowhere")
	if err := closer.Close(); err != nil {
		t.Errorf("Expected no-op close, got %v", err)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Errorf("Expected error for unknown level")
	}
}
