// Package config provides configuration types and defaults for shotseek.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidDetector indicates an unknown detector name was provided.
	ErrInvalidDetector = errors.New("invalid detector")

	// ErrInvalidThreshold indicates a content threshold outside the 0-100 range.
	ErrInvalidThreshold = errors.New("threshold out of range")

	// ErrInvalidFadeThreshold indicates a fade threshold outside the 0-255 range.
	ErrInvalidFadeThreshold = errors.New("fade threshold out of range")

	// ErrInvalidHashDistance indicates a negative hash distance.
	ErrInvalidHashDistance = errors.New("hash distance out of range")

	// ErrInvalidMinSceneLen indicates a non-positive minimum scene length.
	ErrInvalidMinSceneLen = errors.New("minimum scene length must be positive")

	// ErrInvalidDownscale indicates a downscale factor below 1.
	ErrInvalidDownscale = errors.New("downscale factor must be at least 1")

	// ErrInvalidWindow indicates a start time after the end time.
	ErrInvalidWindow = errors.New("window start is after window end")

	// ErrInvalidImagesPerScene indicates a non-positive thumbnail count.
	ErrInvalidImagesPerScene = errors.New("images per scene must be positive")

	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("worker count must not be negative")
)
