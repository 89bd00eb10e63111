package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shotseek.yaml")

	content := `
detector: fade
threshold: 27.5
min_scene_len: 30
downscale: 2
images_per_scene: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}

	if cfg.Detector != DetectorFade {
		t.Errorf("Detector = %v, want fade", cfg.Detector)
	}
	if cfg.Threshold != 27.5 {
		t.Errorf("Threshold = %v, want 27.5", cfg.Threshold)
	}
	if cfg.MinSceneLen != 30 {
		t.Errorf("MinSceneLen = %d, want 30", cfg.MinSceneLen)
	}
	if cfg.Downscale != 2 {
		t.Errorf("Downscale = %d, want 2", cfg.Downscale)
	}
	// Absent keys keep defaults.
	if cfg.FadeThreshold != DefaultFadeThreshold {
		t.Errorf("FadeThreshold = %v, want default %v", cfg.FadeThreshold, DefaultFadeThreshold)
	}
	if cfg.ImageTemplate != DefaultImageTemplate {
		t.Errorf("ImageTemplate = %q, want default", cfg.ImageTemplate)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/shotseek.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveAndReloadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := NewConfig()
	cfg.Threshold = 42
	cfg.Workers = 2

	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("SaveConfigFile error: %v", err)
	}

	back, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile error: %v", err)
	}
	if back.Threshold != 42 || back.Workers != 2 {
		t.Errorf("reloaded config = %+v, want threshold 42 workers 2", back)
	}
}
