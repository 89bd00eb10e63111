// Package shotseek provides a Go library for video scene boundary
// detection.
//
// Shotseek is an FFmpeg wrapper that decodes video frames, scores
// frame-to-frame change with a pluggable detector, and turns the detected
// cuts into a contiguous scene list, with optional thumbnail extraction
// per scene.
//
// Basic usage:
//
//	analyzer, err := shotseek.New(
//	    shotseek.WithThreshold(27),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := analyzer.Detect(ctx, []string{"input.mkv"}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, scene := range result.Scenes {
//	    fmt.Printf("%s -> %s\n", scene.Start, scene.End)
//	}
package shotseek

import (
	"context"
	"time"

	"github.com/shotseek/shotseek/internal/config"
	"github.com/shotseek/shotseek/internal/detect"
	"github.com/shotseek/shotseek/internal/discovery"
	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/processing"
	"github.com/shotseek/shotseek/internal/reporter"
	"github.com/shotseek/shotseek/internal/scene"
	"github.com/shotseek/shotseek/internal/source"
	"github.com/shotseek/shotseek/internal/timecode"
	"github.com/shotseek/shotseek/internal/util"
)

// Re-export core types
type (
	// Timecode is a frame-accurate position in a video.
	Timecode = timecode.Timecode

	// Scene is one contiguous span of frames; Start inclusive, End
	// exclusive.
	Scene = scene.Scene

	// Detector selects the cut detection algorithm.
	Detector = config.DetectorKind

	// Reporter receives progress events during detection.
	Reporter = reporter.Reporter

	// VideoSource decodes one or more attached files as a single logical
	// stream, for callers composing the pipeline directly.
	VideoSource = source.VideoSource

	// SceneManager accumulates cuts from detectors into a contiguous
	// scene list.
	SceneManager = scene.Manager

	// FrameSource is the frame supply a SceneManager drives.
	FrameSource = scene.FrameSource

	// CutDetector scores frames and reports cut positions.
	CutDetector = detect.Detector
)

// NewVideoSource creates an empty source. Attach inputs before Start;
// every input must share one frame rate.
func NewVideoSource() *VideoSource {
	return source.New()
}

// NewSceneManager creates a manager with no detectors attached.
func NewSceneManager() *SceneManager {
	return scene.NewManager()
}

// NewContentDetector creates the histogram-difference content detector.
func NewContentDetector(threshold float64, minSceneLen int64) CutDetector {
	return detect.NewContentDetector(threshold, minSceneLen)
}

// NewFadeDetector creates the mean-intensity fade detector.
func NewFadeDetector(threshold float64, minSceneLen int64) CutDetector {
	return detect.NewFadeDetector(threshold, minSceneLen)
}

// NewHashDetector creates the perceptual-hash detector.
func NewHashDetector(maxDistance int, minSceneLen int64) CutDetector {
	return detect.NewHashDetector(maxDistance, minSceneLen)
}

const (
	DetectorContent = config.DetectorContent
	DetectorFade    = config.DetectorFade
	DetectorHash    = config.DetectorHash
)

// ErrEndOfStream signals normal exhaustion of a frame source.
var ErrEndOfStream = source.ErrEndOfStream

// ParseTimecode parses "HH:MM:SS[.sss]" or a bare second count against the
// given frame rate.
func ParseTimecode(s string, rate float64) (Timecode, error) {
	return timecode.Parse(s, rate)
}

// ParseDetector converts a detector name to a Detector value. Valid values
// are "content", "fade" (alias "threshold") and "hash".
func ParseDetector(s string) (Detector, error) {
	return config.ParseDetector(s)
}

// Analyzer is the main entry point for scene detection.
type Analyzer struct {
	config *config.Config
}

// Result contains the outcome of analyzing a single file.
type Result struct {
	InputFile  string
	Scenes     []Scene
	FramesRead int64
	Images     map[int][]string
	Duration   time.Duration
}

// BatchResult contains the outcome of a batch analysis.
type BatchResult struct {
	Results         []Result
	SuccessfulCount int
	TotalFiles      int
	TotalScenes     int
}

// Option configures the analyzer.
type Option func(*config.Config)

// New creates a new Analyzer with the given options.
func New(opts ...Option) (*Analyzer, error) {
	cfg := config.NewConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Analyzer{config: cfg}, nil
}

// WithDetector selects the cut detection algorithm.
func WithDetector(d Detector) Option {
	return func(c *config.Config) {
		c.Detector = d
	}
}

// WithThreshold sets the content detector score threshold (0-100).
func WithThreshold(threshold float64) Option {
	return func(c *config.Config) {
		c.Threshold = threshold
	}
}

// WithFadeThreshold sets the fade detector mean intensity floor (0-255).
func WithFadeThreshold(threshold float64) Option {
	return func(c *config.Config) {
		c.FadeThreshold = threshold
	}
}

// WithHashMaxDistance sets the hash detector hamming distance threshold.
func WithHashMaxDistance(distance int) Option {
	return func(c *config.Config) {
		c.HashMaxDistance = distance
	}
}

// WithMinSceneLen sets the minimum scene length in frames.
func WithMinSceneLen(frames int64) Option {
	return func(c *config.Config) {
		c.MinSceneLen = frames
	}
}

// WithWindow restricts analysis to the span between two timecode strings,
// parsed against each input's frame rate. Empty strings leave the
// corresponding side open.
func WithWindow(start, end string) Option {
	return func(c *config.Config) {
		c.StartTime = start
		c.EndTime = end
	}
}

// WithDownscale sets the spatial subsampling factor applied before signal
// computation. Zero selects an automatic factor from the input resolution.
func WithDownscale(factor int) Option {
	return func(c *config.Config) {
		c.Downscale = factor
	}
}

// WithImages enables thumbnail extraction with the given count per scene.
func WithImages(perScene int) Option {
	return func(c *config.Config) {
		c.SaveImages = true
		c.ImagesPerScene = perScene
	}
}

// WithImageTemplate sets the thumbnail filename template. $SCENE_NUMBER
// and $IMAGE_NUMBER expand to 1-based indices.
func WithImageTemplate(template, extension string) Option {
	return func(c *config.Config) {
		c.ImageTemplate = template
		c.ImageExtension = extension
	}
}

// WithWorkers sets the number of files analyzed concurrently in a batch.
// Zero selects an automatic count from cores and available memory.
func WithWorkers(n int) Option {
	return func(c *config.Config) {
		c.Workers = n
	}
}

// Detect analyzes one logical video stream. Multiple inputs are decoded
// back to back as a single concatenated stream and must share one frame
// rate. A nil Reporter suppresses progress events.
func (a *Analyzer) Detect(ctx context.Context, inputs []string, rep Reporter) (*Result, error) {
	if len(inputs) == 0 {
		return nil, errs.NewConfigError("no input files")
	}
	cfg := *a.config
	if cfg.SaveImages {
		if err := util.EnsureDirectory(cfg.OutputDir); err != nil {
			return nil, errs.NewIOError("creating output directory", err)
		}
	}

	res := processing.AnalyzeStream(ctx, &cfg, inputs, rep)
	if res.Err != nil {
		return nil, res.Err
	}

	return &Result{
		InputFile:  res.Filename,
		Scenes:     res.Scenes,
		FramesRead: res.FramesRead,
		Images:     res.Images,
		Duration:   res.Duration,
	}, nil
}

// DetectBatch analyzes multiple video files, up to the configured worker
// count in parallel.
func (a *Analyzer) DetectBatch(ctx context.Context, inputs []string, rep Reporter) (*BatchResult, error) {
	cfg := *a.config
	if cfg.SaveImages {
		if err := util.EnsureDirectory(cfg.OutputDir); err != nil {
			return nil, errs.NewIOError("creating output directory", err)
		}
	}

	results, err := processing.ProcessVideos(ctx, &cfg, inputs, rep)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{
		TotalFiles: len(inputs),
	}
	for _, r := range results {
		if r.Path == "" || r.Err != nil {
			continue
		}
		batch.Results = append(batch.Results, Result{
			InputFile:  r.Filename,
			Scenes:     r.Scenes,
			FramesRead: r.FramesRead,
			Images:     r.Images,
			Duration:   r.Duration,
		})
		batch.SuccessfulCount++
		batch.TotalScenes += len(r.Scenes)
	}
	return batch, nil
}

// FindVideos finds video files in a directory.
func FindVideos(dir string) ([]string, error) {
	return discovery.FindVideoFiles(dir)
}
