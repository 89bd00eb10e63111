// Package main provides the CLI entry point for shotseek.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shotseek/shotseek/internal/config"
	"github.com/shotseek/shotseek/internal/discovery"
	"github.com/shotseek/shotseek/internal/logging"
	"github.com/shotseek/shotseek/internal/processing"
	"github.com/shotseek/shotseek/internal/reporter"
	"github.com/shotseek/shotseek/internal/util"
)

const (
	appName    = "shotseek"
	appVersion = "0.3.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootFlags are shared by all subcommands.
type rootFlags struct {
	configFile string
	jsonOutput bool
	jsonLog    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Detect scene boundaries in video files",
		Long:          "Shotseek decodes video with FFmpeg, scores frame-to-frame change and reports the scene boundaries it finds.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelInfo
			if flags.verbose {
				level = logging.LevelDebug
			}
			logging.Init(level, os.Stderr)
		},
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default searches ./shotseek.yaml, ~/.shotseek/config.yaml)")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "emit NDJSON events instead of terminal output")
	root.PersistentFlags().StringVar(&flags.jsonLog, "json-log", "", "write NDJSON events to a file alongside normal output")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(newDetectCmd(flags))
	root.AddCommand(newThumbnailsCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig loads the YAML config file if one is given or discoverable,
// otherwise returns defaults.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	path := flags.configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return config.NewConfig(), nil
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return nil, err
	}
	logging.Debug("loaded config file", "path", path)
	return cfg, nil
}

// resolveInputs expands each argument into video files, descending one
// level into directories.
func resolveInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid input path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("input path does not exist: %s", abs)
		}
		if info.IsDir() {
			found, err := discovery.FindVideoFiles(abs)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
		} else {
			files = append(files, abs)
		}
	}
	return files, nil
}

// newReporter builds the event sink: terminal output or NDJSON on stdout,
// optionally composed with an NDJSON tee to a log file. The returned
// closer flushes the tee.
func newReporter(flags *rootFlags) (reporter.Reporter, func(), error) {
	var primary reporter.Reporter
	if flags.jsonOutput {
		primary = reporter.NewJSONReporter()
	} else {
		primary = reporter.NewTerminalReporter()
	}
	if flags.jsonLog == "" {
		return primary, func() {}, nil
	}
	f, err := os.Create(flags.jsonLog)
	if err != nil {
		return nil, nil, fmt.Errorf("creating json log: %w", err)
	}
	rep := reporter.NewCompositeReporter(primary, reporter.NewJSONReporterWithWriter(f))
	return rep, func() { _ = f.Close() }, nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

// addDetectionFlags registers the detector tuning flags shared by detect
// and thumbnails. Only flags the user actually set override the config
// file.
func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("detector", "d", string(config.DetectorContent), "detection algorithm (content, fade, hash)")
	cmd.Flags().Float64P("threshold", "t", config.DefaultContentThreshold, "content detector score threshold (0-100)")
	cmd.Flags().Float64("fade-threshold", config.DefaultFadeThreshold, "fade detector intensity floor (0-255)")
	cmd.Flags().Int("hash-max-distance", config.DefaultHashMaxDistance, "hash detector hamming distance threshold")
	cmd.Flags().Int64("min-scene-len", config.DefaultMinSceneLen, "minimum scene length in frames")
	cmd.Flags().String("start", "", "start of the analysis window (HH:MM:SS[.sss] or seconds)")
	cmd.Flags().String("end", "", "end of the analysis window (HH:MM:SS[.sss] or seconds)")
	cmd.Flags().Int("downscale", 0, "downscale factor applied before analysis (0 = auto)")
	cmd.Flags().Int("workers", 0, "number of files analyzed in parallel (0 = auto)")
}

// applyDetectionFlags copies set flags over the loaded config.
func applyDetectionFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("detector") {
		s, _ := f.GetString("detector")
		kind, err := config.ParseDetector(s)
		if err != nil {
			return err
		}
		cfg.Detector = kind
	}
	if f.Changed("threshold") {
		cfg.Threshold, _ = f.GetFloat64("threshold")
	}
	if f.Changed("fade-threshold") {
		cfg.FadeThreshold, _ = f.GetFloat64("fade-threshold")
	}
	if f.Changed("hash-max-distance") {
		cfg.HashMaxDistance, _ = f.GetInt("hash-max-distance")
	}
	if f.Changed("min-scene-len") {
		cfg.MinSceneLen, _ = f.GetInt64("min-scene-len")
	}
	if f.Changed("start") {
		cfg.StartTime, _ = f.GetString("start")
	}
	if f.Changed("end") {
		cfg.EndTime, _ = f.GetString("end")
	}
	if f.Changed("downscale") {
		cfg.Downscale, _ = f.GetInt("downscale")
	}
	if f.Changed("workers") {
		cfg.Workers, _ = f.GetInt("workers")
	}
	return nil
}

func newDetectCmd(flags *rootFlags) *cobra.Command {
	var concat bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "detect <input>...",
		Short: "Detect scene boundaries in video files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := applyDetectionFlags(cmd, cfg); err != nil {
				return err
			}
			cfg.SaveImages = false
			cfg.Verbose = flags.verbose
			if err := cfg.Validate(); err != nil {
				return err
			}

			files, err := resolveInputs(args)
			if err != nil {
				return err
			}

			rep, closeRep, err := newReporter(flags)
			if err != nil {
				return err
			}
			defer closeRep()

			ctx, cancel := signalContext()
			defer cancel()

			var results []processing.Result
			if concat && len(files) > 1 {
				res := processing.AnalyzeStream(ctx, cfg, files, rep)
				results = []processing.Result{res}
				if res.Err != nil {
					return res.Err
				}
			} else {
				results, err = processing.ProcessVideos(ctx, cfg, files, rep)
				if err != nil {
					return err
				}
			}

			if csvPath != "" {
				if err := writeSceneCSV(csvPath, results); err != nil {
					return err
				}
			}
			return exitError(results)
		},
	}
	addDetectionFlags(cmd)
	cmd.Flags().BoolVar(&concat, "concat", false, "treat all inputs as one concatenated stream")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the scene table to a CSV file")
	return cmd
}

// writeSceneCSV writes one scene table covering every successfully
// analyzed stream.
func writeSceneCSV(path string, results []processing.Result) error {
	var tables []reporter.SceneTable
	for _, r := range results {
		if r.Path == "" || r.Err != nil {
			continue
		}
		tables = append(tables, reporter.SceneTable{
			InputFile: r.Filename,
			Scenes:    processing.SceneSummaries(r.Scenes),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scene csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	return reporter.WriteScenesCSV(f, tables...)
}

func newThumbnailsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thumbnails <input>...",
		Short: "Detect scenes and save representative images per scene",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if err := applyDetectionFlags(cmd, cfg); err != nil {
				return err
			}
			cfg.SaveImages = true
			cfg.Verbose = flags.verbose

			f := cmd.Flags()
			if f.Changed("num-images") {
				cfg.ImagesPerScene, _ = f.GetInt("num-images")
			}
			if f.Changed("output") {
				cfg.OutputDir, _ = f.GetString("output")
			}
			if f.Changed("template") {
				cfg.ImageTemplate, _ = f.GetString("template")
			}
			if f.Changed("format") {
				cfg.ImageExtension, _ = f.GetString("format")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := util.EnsureDirectory(cfg.OutputDir); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			files, err := resolveInputs(args)
			if err != nil {
				return err
			}

			rep, closeRep, err := newReporter(flags)
			if err != nil {
				return err
			}
			defer closeRep()

			ctx, cancel := signalContext()
			defer cancel()

			results, err := processing.ProcessVideos(ctx, cfg, files, rep)
			if err != nil {
				return err
			}
			return exitError(results)
		},
	}
	addDetectionFlags(cmd)
	cmd.Flags().IntP("num-images", "n", config.DefaultImagesPerScene, "images saved per scene")
	cmd.Flags().StringP("output", "o", ".", "output directory for images")
	cmd.Flags().String("template", config.DefaultImageTemplate, "image filename template ($SCENE_NUMBER, $IMAGE_NUMBER)")
	cmd.Flags().String("format", config.DefaultImageExtension, "image format extension (jpg, png)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
}

// exitError converts per-file failures into a non-zero exit when nothing
// succeeded.
func exitError(results []processing.Result) error {
	failed := 0
	total := 0
	for _, r := range results {
		if r.Path == "" {
			continue
		}
		total++
		if r.Err != nil {
			failed++
		}
	}
	if total > 0 && failed == total {
		return fmt.Errorf("all %d files failed to analyze", total)
	}
	return nil
}
