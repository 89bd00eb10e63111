package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/shotseek/shotseek/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	cyan       *color.Color
	green      *color.Color
	yellow     *color.Color
	red        *color.Color
	magenta    *color.Color
	bold       *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		magenta: color.New(color.FgMagenta),
		bold:    color.New(color.Bold),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) DetectionStarted(summary VideoSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("VIDEO")
	const w = 12
	r.printLabel(w, "File:", summary.InputFile)
	r.printLabel(w, "Duration:", summary.Duration)
	r.printLabel(w, "Resolution:", summary.Resolution)
	r.printLabel(w, "Frame rate:", summary.FrameRate)
	r.printLabel(w, "Detector:", summary.Detector)
	if summary.Downscale > 1 {
		r.printLabel(w, "Downscale:", fmt.Sprintf("%dx", summary.Downscale))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Analyzing [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) DetectionProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	desc := fmt.Sprintf("fps %.0f, %d scenes, eta %s",
		progress.FPS, progress.ScenesSoFar, util.FormatDuration(progress.ETA.Seconds()))
	r.progress.Describe(desc)
}

func (r *TerminalReporter) CutDetected(event CutEvent) {
	r.mu.Lock()
	active := r.progress != nil
	r.mu.Unlock()
	if active {
		// The progress bar owns the line; cuts show up in the final listing.
		return
	}
	fmt.Printf("  %s cut at %s (frame %d)\n", r.magenta.Sprint("›"), event.Timecode, event.Frame)
}

func (r *TerminalReporter) DetectionComplete(outcome DetectionOutcome) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("SCENES")
	if len(outcome.Scenes) == 0 {
		fmt.Println("  No scenes detected")
	}
	for _, sc := range outcome.Scenes {
		fmt.Printf("  %s %s -> %s (%d frames, %s)\n",
			r.bold.Sprintf("%3d.", sc.Number), sc.Start, sc.End, sc.Frames, sc.Duration)
	}

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel(8, "Scenes:", fmt.Sprintf("%d", len(outcome.Scenes)))
	r.printLabel(8, "Frames:", fmt.Sprintf("%d", outcome.FramesRead))
	if outcome.ImagesSaved > 0 {
		r.printLabel(8, "Images:", fmt.Sprintf("%d", outcome.ImagesSaved))
	}
	fmt.Printf("  %s %s (%.0f fps)\n",
		r.bold.Sprint("Time:"),
		util.FormatDuration(outcome.TotalTime.Seconds()),
		outcome.AverageFPS)
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	fmt.Println()
	fmt.Printf("%s %s\n", r.green.Add(color.Bold).Sprint("✓"), r.bold.Sprint(message))
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Analyzing %d files -> %s\n", info.TotalFiles, r.bold.Sprint(info.OutputDir))
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	fmt.Printf("\nFile %s of %d: %s\n",
		r.bold.Sprint(context.CurrentFile),
		context.TotalFiles,
		context.Filename)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles))
	fmt.Printf("  Scenes: %d across %d frames\n", summary.TotalScenes, summary.TotalFrames)
	fmt.Printf("  Time: %s\n", util.FormatDuration(summary.TotalDuration.Seconds()))

	for _, result := range summary.FileResults {
		if result.Failed {
			fmt.Printf("  - %s (%s)\n", result.Filename, r.red.Sprint("failed"))
			continue
		}
		fmt.Printf("  - %s (%d scenes)\n", result.Filename, result.Scenes)
	}
}
