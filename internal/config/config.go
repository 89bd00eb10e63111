package config

import (
	"fmt"
	"strings"

	"github.com/shotseek/shotseek/internal/util"
)

// Default constants
const (
	// DefaultContentThreshold is the content detector score threshold (0-100).
	DefaultContentThreshold float64 = 30.0

	// DefaultMinSceneLen is the minimum scene length in frames.
	DefaultMinSceneLen int64 = 15

	// DefaultFadeThreshold is the fade detector mean intensity threshold (0-255).
	DefaultFadeThreshold float64 = 12.0

	// DefaultHashMaxDistance is the hash detector hamming distance threshold.
	DefaultHashMaxDistance int = 8

	// DefaultDownscaleMinWidth is the width the auto downscale factor aims for.
	// Frames are subsampled so the analyzed width stays at or above this.
	DefaultDownscaleMinWidth int = 256

	// DefaultImagesPerScene is the number of thumbnails written per scene.
	DefaultImagesPerScene int = 3

	// DefaultImageTemplate is the thumbnail filename template.
	DefaultImageTemplate string = "scene-$SCENE_NUMBER-$IMAGE_NUMBER"

	// DefaultImageExtension is the thumbnail image format extension.
	DefaultImageExtension string = "jpg"

	// MaxContentThreshold is the upper bound of the content score range.
	MaxContentThreshold float64 = 100.0

	// MaxFadeThreshold is the upper bound of the mean intensity range.
	MaxFadeThreshold float64 = 255.0

	// PipelineMemEstimate is the estimated working set of one detection
	// pipeline in bytes (decode buffers plus detector state), used to bound
	// batch parallelism on small machines.
	PipelineMemEstimate uint64 = 64 * util.MiB

	// MemoryUseFraction is the fraction of available memory batch workers
	// may collectively use.
	MemoryUseFraction float64 = 0.7
)

// DetectorKind selects the cut detection algorithm.
type DetectorKind string

const (
	// DetectorContent detects cuts from frame-to-frame histogram change.
	DetectorContent DetectorKind = "content"
	// DetectorFade detects cuts from fades through a dark intensity floor.
	DetectorFade DetectorKind = "fade"
	// DetectorHash detects cuts from perceptual hash distance.
	DetectorHash DetectorKind = "hash"
)

// ParseDetector parses a string into a DetectorKind.
func ParseDetector(s string) (DetectorKind, error) {
	switch strings.ToLower(s) {
	case "content":
		return DetectorContent, nil
	case "fade", "threshold":
		return DetectorFade, nil
	case "hash":
		return DetectorHash, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: content, fade, hash", ErrInvalidDetector, s)
	}
}

// String returns the string representation of the detector kind.
func (k DetectorKind) String() string {
	return string(k)
}

// Config holds all configuration for scene detection.
type Config struct {
	// Detector selection and tuning
	Detector        DetectorKind `yaml:"detector"`
	Threshold       float64      `yaml:"threshold"`
	FadeThreshold   float64      `yaml:"fade_threshold"`
	HashMaxDistance int          `yaml:"hash_max_distance"`
	MinSceneLen     int64        `yaml:"min_scene_len"`

	// Analysis window, as timecode strings parsed against the input's rate.
	// Empty means unbounded.
	StartTime string `yaml:"start_time"`
	EndTime   string `yaml:"end_time"`

	// Downscale factor applied before signal computation. 0 selects an
	// automatic factor from the input resolution.
	Downscale int `yaml:"downscale"`

	// Thumbnail output
	SaveImages     bool   `yaml:"save_images"`
	ImagesPerScene int    `yaml:"images_per_scene"`
	ImageTemplate  string `yaml:"image_template"`
	ImageExtension string `yaml:"image_extension"`
	OutputDir      string `yaml:"output_dir"`

	// Batch processing. Workers 0 selects an automatic count from cores
	// and available memory.
	Workers int `yaml:"workers"`

	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Detector:        DetectorContent,
		Threshold:       DefaultContentThreshold,
		FadeThreshold:   DefaultFadeThreshold,
		HashMaxDistance: DefaultHashMaxDistance,
		MinSceneLen:     DefaultMinSceneLen,
		Downscale:       0,
		ImagesPerScene:  DefaultImagesPerScene,
		ImageTemplate:   DefaultImageTemplate,
		ImageExtension:  DefaultImageExtension,
		OutputDir:       ".",
		Workers:         0,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParseDetector(string(c.Detector)); err != nil {
		return err
	}

	if c.Threshold < 0 || c.Threshold > MaxContentThreshold {
		return fmt.Errorf("%w: must be 0-%g, got %g", ErrInvalidThreshold, MaxContentThreshold, c.Threshold)
	}

	if c.FadeThreshold < 0 || c.FadeThreshold > MaxFadeThreshold {
		return fmt.Errorf("%w: must be 0-%g, got %g", ErrInvalidFadeThreshold, MaxFadeThreshold, c.FadeThreshold)
	}

	if c.HashMaxDistance < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidHashDistance, c.HashMaxDistance)
	}

	if c.MinSceneLen < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinSceneLen, c.MinSceneLen)
	}

	if c.Downscale < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDownscale, c.Downscale)
	}

	if c.ImagesPerScene < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidImagesPerScene, c.ImagesPerScene)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}

	return nil
}

// EffectiveWorkers resolves the worker count, bounding the automatic value
// by physical cores and available memory.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	workers := util.PhysicalCores()
	if byMem := util.MaxPipelinesForMemory(PipelineMemEstimate, MemoryUseFraction); byMem < workers {
		workers = byMem
	}
	return max(workers, 1)
}
