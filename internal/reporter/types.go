// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// VideoSummary describes the video about to be analyzed.
type VideoSummary struct {
	InputFile   string
	Duration    string
	Resolution  string
	FrameRate   string
	TotalFrames int64
	Detector    string
	Downscale   int
}

// ProgressSnapshot contains detection progress information.
type ProgressSnapshot struct {
	CurrentFrame int64
	TotalFrames  int64 // 0 when unknown
	Percent      float32
	FPS          float32
	ETA          time.Duration
	ScenesSoFar  int
}

// CutEvent describes one confirmed scene boundary.
type CutEvent struct {
	Frame    int64
	Timecode string
	Score    float64
}

// SceneSummary is one detected scene in the final listing.
type SceneSummary struct {
	Number   int
	Start    string
	End      string
	Frames   int64
	Duration string
}

// DetectionOutcome contains final detection results for one video.
type DetectionOutcome struct {
	InputFile   string
	FramesRead  int64
	Scenes      []SceneSummary
	ImagesSaved int
	TotalTime   time.Duration
	AverageFPS  float32
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	OutputDir  string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
	Filename    string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	TotalFiles      int
	TotalScenes     int
	TotalFrames     int64
	TotalDuration   time.Duration
	FileResults     []FileResult
}

// FileResult contains per-file detection result.
type FileResult struct {
	Filename string
	Scenes   int
	Failed   bool
}
