package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line, for machine
// consumers wrapping the CLI.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) DetectionStarted(summary VideoSummary) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":         "detection_started",
		"input_file":   summary.InputFile,
		"duration":     summary.Duration,
		"resolution":   summary.Resolution,
		"frame_rate":   summary.FrameRate,
		"total_frames": summary.TotalFrames,
		"detector":     summary.Detector,
		"downscale":    summary.Downscale,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) DetectionProgress(progress ProgressSnapshot) {
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent)
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || progress.Percent >= 99.0

	if !shouldEmit {
		r.mu.Unlock()
		return
	}

	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":          "detection_progress",
		"current_frame": progress.CurrentFrame,
		"total_frames":  progress.TotalFrames,
		"percent":       progress.Percent,
		"fps":           progress.FPS,
		"eta_seconds":   int64(progress.ETA.Seconds()),
		"scenes":        progress.ScenesSoFar,
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) CutDetected(event CutEvent) {
	r.write(map[string]interface{}{
		"type":      "cut_detected",
		"frame":     event.Frame,
		"timecode":  event.Timecode,
		"score":     event.Score,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) DetectionComplete(outcome DetectionOutcome) {
	scenes := make([]map[string]interface{}, len(outcome.Scenes))
	for i, sc := range outcome.Scenes {
		scenes[i] = map[string]interface{}{
			"scene":    sc.Number,
			"start":    sc.Start,
			"end":      sc.End,
			"frames":   sc.Frames,
			"duration": sc.Duration,
		}
	}

	r.write(map[string]interface{}{
		"type":             "detection_complete",
		"input_file":       outcome.InputFile,
		"frames_read":      outcome.FramesRead,
		"scenes":           scenes,
		"images_saved":     outcome.ImagesSaved,
		"duration_seconds": int64(outcome.TotalTime.Seconds()),
		"average_fps":      outcome.AverageFPS,
		"timestamp":        r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"output_dir":  info.OutputDir,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]interface{}{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"filename":     context.Filename,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	results := make([]map[string]interface{}, len(summary.FileResults))
	for i, res := range summary.FileResults {
		results[i] = map[string]interface{}{
			"filename": res.Filename,
			"scenes":   res.Scenes,
			"failed":   res.Failed,
		}
	}

	r.write(map[string]interface{}{
		"type":                   "batch_complete",
		"successful_count":       summary.SuccessfulCount,
		"total_files":            summary.TotalFiles,
		"total_scenes":           summary.TotalScenes,
		"total_frames":           summary.TotalFrames,
		"total_duration_seconds": int64(summary.TotalDuration.Seconds()),
		"file_results":           results,
		"timestamp":              r.timestamp(),
	})
}
