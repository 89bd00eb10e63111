// Package processing orchestrates scene detection across one or more
// video files.
package processing

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/shotseek/shotseek/internal/config"
	"github.com/shotseek/shotseek/internal/decode"
	"github.com/shotseek/shotseek/internal/detect"
	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/ffprobe"
	"github.com/shotseek/shotseek/internal/logging"
	"github.com/shotseek/shotseek/internal/reporter"
	"github.com/shotseek/shotseek/internal/scene"
	"github.com/shotseek/shotseek/internal/source"
	"github.com/shotseek/shotseek/internal/thumbs"
	"github.com/shotseek/shotseek/internal/timecode"
	"github.com/shotseek/shotseek/internal/util"
	"github.com/shotseek/shotseek/internal/worker"
)

// FrameSource is the frame supply a detection pipeline drives: one or more
// files attached before Start and decoded back to back as a single stream.
// Production code uses source.VideoSource.
type FrameSource interface {
	scene.FrameSource
	Attach(path string) error
	SetDownscaleFactor(f int) error
	TotalFrames() int64
	Resolution() (int, int)
	DownscaleFactor() int
	ReadFrameAt(ctx context.Context, frame int64) (image.Image, error)
	Release() error
}

// NewSource builds the frame supply for one pipeline. Tests substitute
// fakes here.
var NewSource = func() FrameSource { return source.New() }

// Result contains the outcome of analyzing one logical stream.
type Result struct {
	Filename   string
	Path       string
	Scenes     []scene.Scene
	FramesRead int64
	Images     map[int][]string
	Duration   time.Duration
	Err        error
}

// BuildDetector constructs the detector the configuration selects.
func BuildDetector(cfg *config.Config) (detect.Detector, error) {
	kind, err := config.ParseDetector(string(cfg.Detector))
	if err != nil {
		return nil, errs.NewConfigError(err.Error())
	}
	switch kind {
	case config.DetectorContent:
		return detect.NewContentDetector(cfg.Threshold, cfg.MinSceneLen), nil
	case config.DetectorFade:
		return detect.NewFadeDetector(cfg.FadeThreshold, cfg.MinSceneLen), nil
	case config.DetectorHash:
		return detect.NewHashDetector(cfg.HashMaxDistance, cfg.MinSceneLen), nil
	default:
		return nil, errs.NewConfigErrorf("unknown detector %q", kind)
	}
}

// parseWindow resolves the configured start/end timecode strings against
// the input's frame rate.
func parseWindow(cfg *config.Config, rate float64) (start, end *timecode.Timecode, err error) {
	if cfg.StartTime != "" {
		tc, err := timecode.Parse(cfg.StartTime, rate)
		if err != nil {
			return nil, nil, err
		}
		start = &tc
	}
	if cfg.EndTime != "" {
		tc, err := timecode.Parse(cfg.EndTime, rate)
		if err != nil {
			return nil, nil, err
		}
		end = &tc
	}
	return start, end, nil
}

// SceneSummaries converts a scene list into the reporter's per-scene rows.
func SceneSummaries(scenes []scene.Scene) []reporter.SceneSummary {
	var out []reporter.SceneSummary
	for i, sc := range scenes {
		out = append(out, reporter.SceneSummary{
			Number:   i + 1,
			Start:    sc.Start.String(),
			End:      sc.End.String(),
			Frames:   sc.NumFrames(),
			Duration: util.FormatDuration(sc.End.Seconds() - sc.Start.Seconds()),
		})
	}
	return out
}

// streamName is the display name for a set of concatenated inputs.
func streamName(inputs []string) string {
	name := util.GetFilename(inputs[0])
	if len(inputs) > 1 {
		name = fmt.Sprintf("%s (+%d more)", name, len(inputs)-1)
	}
	return name
}

// AnalyzeStream runs the full detection pipeline over one logical stream:
// attach inputs, windowed decode, detection, scene listing and optional
// thumbnails. Multiple inputs are decoded back to back; all must share one
// frame rate. Reporter events are only emitted when rep is non-nil, so
// batch workers can run quietly.
func AnalyzeStream(ctx context.Context, cfg *config.Config, inputs []string, rep reporter.Reporter) Result {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	log := logging.Global().WithComponent("processing")
	started := time.Now()
	var result Result
	if len(inputs) == 0 {
		result.Err = errs.NewConfigError("no input files")
		return result
	}
	result.Filename = streamName(inputs)
	result.Path = inputs[0]

	src := NewSource()
	for _, p := range inputs {
		if err := src.Attach(p); err != nil {
			result.Err = err
			return result
		}
	}
	defer func() { _ = src.Release() }()

	if cfg.StartTime != "" || cfg.EndTime != "" {
		// Window strings resolve against a frame rate, and windows must be
		// set before Start. Probe the first input up front; every attached
		// input shares its rate.
		info, err := ffprobe.Probe(inputs[0])
		if err != nil {
			result.Err = err
			return result
		}
		winStart, winEnd, err := parseWindow(cfg, info.FrameRate)
		if err != nil {
			result.Err = err
			return result
		}
		if err := src.SetWindow(winStart, winEnd); err != nil {
			result.Err = err
			return result
		}
	}
	if err := src.SetDownscaleFactor(cfg.Downscale); err != nil {
		result.Err = err
		return result
	}
	if err := src.Start(ctx); err != nil {
		result.Err = err
		return result
	}

	detector, err := BuildDetector(cfg)
	if err != nil {
		result.Err = err
		return result
	}
	manager := scene.NewManager()
	manager.AddDetector(detector)
	if err := manager.SetMinSceneLen(cfg.MinSceneLen); err != nil {
		result.Err = err
		return result
	}

	total := src.TotalFrames()
	rate := src.FrameRate()
	width, height := src.Resolution()
	var seconds float64
	if total > 0 && rate > 0 {
		seconds = float64(total) / rate
	}
	rep.DetectionStarted(reporter.VideoSummary{
		InputFile:   result.Filename,
		Duration:    util.FormatDuration(seconds),
		Resolution:  fmt.Sprintf("%dx%d", width, height),
		FrameRate:   util.FormatFrameRate(rate),
		TotalFrames: total,
		Detector:    cfg.Detector.String(),
		Downscale:   src.DownscaleFactor(),
	})

	frames, err := manager.DetectScenes(ctx, src, scene.Options{
		Callback: func(_ *decode.Frame, pos timecode.Timecode) {
			rep.CutDetected(reporter.CutEvent{
				Frame:    pos.Frame(),
				Timecode: pos.String(),
			})
		},
		Progress: func(pos int64, cuts int) {
			elapsed := time.Since(started).Seconds()
			var fps float32
			if elapsed > 0 {
				fps = float32(float64(pos) / elapsed)
			}
			snapshot := reporter.ProgressSnapshot{
				CurrentFrame: pos,
				TotalFrames:  total,
				FPS:          fps,
				ScenesSoFar:  cuts + 1,
			}
			if total > 0 {
				snapshot.Percent = float32(pos) / float32(total) * 100
				if fps > 0 {
					snapshot.ETA = time.Duration(float64(total-pos)/float64(fps)) * time.Second
				}
			}
			rep.DetectionProgress(snapshot)
		},
	})
	result.FramesRead = frames
	if err != nil {
		result.Err = err
		return result
	}

	scenes, err := manager.SceneList()
	if err != nil {
		result.Err = err
		return result
	}
	result.Scenes = scenes
	log.Debug("detection finished", "stream", result.Filename,
		"frames", frames, "scenes", len(scenes))

	if cfg.SaveImages && len(scenes) > 0 {
		if err := util.EnsureDirectory(cfg.OutputDir); err != nil {
			result.Err = err
			return result
		}
		enc := &thumbs.FileEncoder{
			Template:  cfg.ImageTemplate,
			OutputDir: cfg.OutputDir,
			Extension: cfg.ImageExtension,
		}
		images, err := thumbs.Extract(ctx, scenes, src, cfg.ImagesPerScene, enc)
		result.Images = images
		if err != nil {
			result.Err = err
			return result
		}
	}

	result.Duration = time.Since(started)

	var imageCount int
	for _, paths := range result.Images {
		imageCount += len(paths)
	}
	var avgFPS float32
	if secs := result.Duration.Seconds(); secs > 0 {
		avgFPS = float32(float64(frames) / secs)
	}
	rep.DetectionComplete(reporter.DetectionOutcome{
		InputFile:   result.Filename,
		FramesRead:  frames,
		Scenes:      SceneSummaries(scenes),
		ImagesSaved: imageCount,
		TotalTime:   result.Duration,
		AverageFPS:  avgFPS,
	})

	return result
}

// ProcessVideos analyzes a list of video files, running up to
// cfg.EffectiveWorkers pipelines concurrently. Per-file reporter detail is
// emitted only when a single worker runs; batch events are always emitted.
func ProcessVideos(ctx context.Context, cfg *config.Config, files []string, rep reporter.Reporter) ([]Result, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	if len(files) == 0 {
		return nil, errs.NewConfigError("no input files")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errs.NewConfigError(err.Error())
	}

	log := logging.Global().WithComponent("processing")

	workers := cfg.EffectiveWorkers()
	if workers > len(files) {
		workers = len(files)
	}

	if len(files) > 1 {
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = util.GetFilename(f)
		}
		rep.BatchStarted(reporter.BatchStartInfo{
			TotalFiles: len(files),
			FileList:   names,
			OutputDir:  cfg.OutputDir,
		})
	}

	results := make([]Result, len(files))

	if workers <= 1 {
		for i, path := range files {
			if ctx.Err() != nil {
				rep.Warning(fmt.Sprintf("Analysis cancelled: %v", ctx.Err()))
				results = results[:i]
				break
			}
			if len(files) > 1 {
				rep.FileProgress(reporter.FileProgressContext{
					CurrentFile: i + 1,
					TotalFiles:  len(files),
					Filename:    util.GetFilename(path),
				})
			}
			results[i] = AnalyzeStream(ctx, cfg, []string{path}, rep)
			if results[i].Err != nil {
				reportFileError(rep, results[i])
			}
		}
	} else {
		// Parallel workers share a semaphore; per-file progress events
		// would interleave, so workers run against a null reporter and
		// emit one FileProgress event as each file completes.
		sem := worker.NewSemaphore(workers)
		var wg sync.WaitGroup
		var mu sync.Mutex
		prog := worker.Progress{FilesTotal: len(files)}
		for i, path := range files {
			select {
			case <-ctx.Done():
				rep.Warning(fmt.Sprintf("Analysis cancelled: %v", ctx.Err()))
			case <-sem.Chan():
				wg.Add(1)
				go func(idx int, p string) {
					defer wg.Done()
					defer sem.Release()
					res := AnalyzeStream(ctx, cfg, []string{p}, nil)
					mu.Lock()
					results[idx] = res
					prog.FilesComplete++
					prog.FramesComplete += res.FramesRead
					update := reporter.FileProgressContext{
						CurrentFile: prog.FilesComplete,
						TotalFiles:  prog.FilesTotal,
						Filename:    res.Filename,
					}
					percent := prog.Percent()
					framesDone := prog.FramesComplete
					mu.Unlock()
					rep.FileProgress(update)
					log.Debug("batch progress", "percent", percent,
						"frames", framesDone)
				}(i, path)
			}
			if ctx.Err() != nil {
				break
			}
		}
		wg.Wait()

		for _, res := range results {
			if res.Path == "" {
				continue
			}
			if res.Err != nil {
				reportFileError(rep, res)
			}
		}
	}

	summarize(rep, files, results)
	return results, nil
}

func reportFileError(rep reporter.Reporter, res Result) {
	rep.Error(reporter.ReporterError{
		Title:      "Analysis Error",
		Message:    fmt.Sprintf("Could not analyze %s: %v", res.Filename, res.Err),
		Context:    fmt.Sprintf("File: %s", res.Path),
		Suggestion: "Check if the file is a valid video format",
	})
}

func summarize(rep reporter.Reporter, files []string, results []Result) {
	successes := 0
	for _, r := range results {
		if r.Path != "" && r.Err == nil {
			successes++
		}
	}

	switch {
	case successes == 0:
		rep.Warning("No files were successfully analyzed")
	case len(files) == 1:
		rep.OperationComplete(fmt.Sprintf("Detected %d scenes in %s",
			len(results[0].Scenes), results[0].Filename))
	default:
		var totalScenes int
		var totalFrames int64
		var totalDuration time.Duration
		var fileResults []reporter.FileResult
		for _, r := range results {
			if r.Path == "" {
				continue
			}
			fileResults = append(fileResults, reporter.FileResult{
				Filename: r.Filename,
				Scenes:   len(r.Scenes),
				Failed:   r.Err != nil,
			})
			if r.Err != nil {
				continue
			}
			totalScenes += len(r.Scenes)
			totalFrames += r.FramesRead
			totalDuration += r.Duration
		}
		rep.BatchComplete(reporter.BatchSummary{
			SuccessfulCount: successes,
			TotalFiles:      len(files),
			TotalScenes:     totalScenes,
			TotalFrames:     totalFrames,
			TotalDuration:   totalDuration,
			FileResults:     fileResults,
		})
	}
}
