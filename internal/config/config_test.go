package config

import (
	"errors"
	"testing"
)

func TestParseDetector(t *testing.T) {
	tests := []struct {
		input   string
		want    DetectorKind
		wantErr bool
	}{
		{"content", DetectorContent, false},
		{"Content", DetectorContent, false},
		{"fade", DetectorFade, false},
		{"threshold", DetectorFade, false},
		{"hash", DetectorHash, false},
		{"HASH", DetectorHash, false},
		{"", "", true},
		{"edges", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDetector(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDetector) {
					t.Errorf("want ErrInvalidDetector, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDetector(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDetector(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	if err := NewConfig().Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"bad detector", func(c *Config) { c.Detector = "edges" }, ErrInvalidDetector},
		{"threshold too high", func(c *Config) { c.Threshold = 101 }, ErrInvalidThreshold},
		{"threshold negative", func(c *Config) { c.Threshold = -1 }, ErrInvalidThreshold},
		{"fade threshold too high", func(c *Config) { c.FadeThreshold = 256 }, ErrInvalidFadeThreshold},
		{"hash distance negative", func(c *Config) { c.HashMaxDistance = -1 }, ErrInvalidHashDistance},
		{"zero min scene len", func(c *Config) { c.MinSceneLen = 0 }, ErrInvalidMinSceneLen},
		{"negative downscale", func(c *Config) { c.Downscale = -2 }, ErrInvalidDownscale},
		{"zero images per scene", func(c *Config) { c.ImagesPerScene = 0 }, ErrInvalidImagesPerScene},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := NewConfig()
	cfg.Workers = 4
	if got := cfg.EffectiveWorkers(); got != 4 {
		t.Errorf("explicit workers: got %d, want 4", got)
	}

	cfg.Workers = 0
	if got := cfg.EffectiveWorkers(); got < 1 {
		t.Errorf("auto workers must be at least 1, got %d", got)
	}
}
