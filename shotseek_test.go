package shotseek

import (
	"context"
	"image"
	"testing"

	"github.com/shotseek/shotseek/internal/decode"
	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/processing"
	"github.com/shotseek/shotseek/internal/source"
	"github.com/shotseek/shotseek/internal/timecode"
)

func TestNewDefaults(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.config.Detector != DetectorContent {
		t.Errorf("default detector = %q, want %q", a.config.Detector, DetectorContent)
	}
	if a.config.Threshold != 30.0 {
		t.Errorf("default threshold = %g, want 30", a.config.Threshold)
	}
	if a.config.MinSceneLen != 15 {
		t.Errorf("default min scene len = %d, want 15", a.config.MinSceneLen)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name: "valid content threshold",
			opts: []Option{WithThreshold(27)},
		},
		{
			name: "valid fade detector",
			opts: []Option{WithDetector(DetectorFade), WithFadeThreshold(8)},
		},
		{
			name: "valid hash detector",
			opts: []Option{WithDetector(DetectorHash), WithHashMaxDistance(12)},
		},
		{
			name:    "threshold above range",
			opts:    []Option{WithThreshold(101)},
			wantErr: true,
		},
		{
			name:    "negative threshold",
			opts:    []Option{WithThreshold(-1)},
			wantErr: true,
		},
		{
			name:    "zero min scene len",
			opts:    []Option{WithMinSceneLen(0)},
			wantErr: true,
		},
		{
			name:    "negative downscale",
			opts:    []Option{WithDownscale(-2)},
			wantErr: true,
		},
		{
			name:    "unknown detector",
			opts:    []Option{WithDetector("wavelet")},
			wantErr: true,
		},
		{
			name:    "zero images per scene",
			opts:    []Option{WithImages(0)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionPlumbing(t *testing.T) {
	a, err := New(
		WithDetector(DetectorFade),
		WithFadeThreshold(10),
		WithMinSceneLen(24),
		WithWindow("00:00:10", "00:01:00"),
		WithDownscale(2),
		WithImages(5),
		WithImageTemplate("cut-$SCENE_NUMBER-$IMAGE_NUMBER", "png"),
		WithWorkers(4),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cfg := a.config
	if cfg.Detector != DetectorFade {
		t.Errorf("detector = %q, want fade", cfg.Detector)
	}
	if cfg.FadeThreshold != 10 {
		t.Errorf("fade threshold = %g, want 10", cfg.FadeThreshold)
	}
	if cfg.MinSceneLen != 24 {
		t.Errorf("min scene len = %d, want 24", cfg.MinSceneLen)
	}
	if cfg.StartTime != "00:00:10" || cfg.EndTime != "00:01:00" {
		t.Errorf("window = (%q, %q), want (00:00:10, 00:01:00)", cfg.StartTime, cfg.EndTime)
	}
	if cfg.Downscale != 2 {
		t.Errorf("downscale = %d, want 2", cfg.Downscale)
	}
	if !cfg.SaveImages || cfg.ImagesPerScene != 5 {
		t.Errorf("images = (%v, %d), want (true, 5)", cfg.SaveImages, cfg.ImagesPerScene)
	}
	if cfg.ImageTemplate != "cut-$SCENE_NUMBER-$IMAGE_NUMBER" || cfg.ImageExtension != "png" {
		t.Errorf("image template = (%q, %q)", cfg.ImageTemplate, cfg.ImageExtension)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Workers)
	}
}

// concatSource pretends to be a decoder for any number of attached files,
// serving dark frames then bright frames from cutAt on.
type concatSource struct {
	attached []string
	frames   int64
	cutAt    int64
	started  bool
	pos      int64
}

func (c *concatSource) Attach(path string) error {
	c.attached = append(c.attached, path)
	return nil
}

func (c *concatSource) SetWindow(*timecode.Timecode, *timecode.Timecode) error { return nil }
func (c *concatSource) SetDownscaleFactor(int) error                           { return nil }
func (c *concatSource) FrameRate() float64                                     { return 10 }
func (c *concatSource) Started() bool                                          { return c.started }
func (c *concatSource) TotalFrames() int64                                     { return c.frames }
func (c *concatSource) Resolution() (int, int)                                 { return 16, 4 }
func (c *concatSource) DownscaleFactor() int                                   { return 1 }
func (c *concatSource) Release() error                                         { return nil }

func (c *concatSource) Start(context.Context) error {
	c.started = true
	return nil
}

func (c *concatSource) ReadFrame(context.Context) (*decode.Frame, int64, error) {
	if c.pos >= c.frames {
		return nil, 0, source.ErrEndOfStream
	}
	pix := make([]byte, 64)
	if c.pos >= c.cutAt {
		for i := range pix {
			pix[i] = 200
		}
	}
	pos := c.pos
	c.pos++
	return &decode.Frame{Pix: pix, Width: 16, Height: 4}, pos, nil
}

func (c *concatSource) ReadFrameAt(context.Context, int64) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 16, 4)), nil
}

func TestDetectConcatenatedInputs(t *testing.T) {
	fake := &concatSource{frames: 80, cutAt: 40}
	orig := processing.NewSource
	processing.NewSource = func() processing.FrameSource { return fake }
	defer func() { processing.NewSource = orig }()

	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := a.Detect(context.Background(), []string{"part1.mkv", "part2.mkv"}, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(fake.attached) != 2 || fake.attached[0] != "part1.mkv" || fake.attached[1] != "part2.mkv" {
		t.Errorf("attached inputs = %v, want [part1.mkv part2.mkv]", fake.attached)
	}
	if res.FramesRead != 80 {
		t.Errorf("read %d frames, want 80", res.FramesRead)
	}
	if len(res.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(res.Scenes))
	}
	if res.Scenes[1].Start.Frame() != 40 {
		t.Errorf("second scene starts at %d, want 40", res.Scenes[1].Start.Frame())
	}
}

func TestDetectNoInputs(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Detect(context.Background(), nil, nil); !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Detect with no inputs = %v, want config error", err)
	}
}

func TestParseDetector(t *testing.T) {
	tests := []struct {
		input   string
		want    Detector
		wantErr bool
	}{
		{input: "content", want: DetectorContent},
		{input: "fade", want: DetectorFade},
		{input: "threshold", want: DetectorFade},
		{input: "HASH", want: DetectorHash},
		{input: "optical-flow", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDetector(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDetector(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDetector(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTimecode(t *testing.T) {
	tc, err := ParseTimecode("00:00:02.500", 24)
	if err != nil {
		t.Fatalf("ParseTimecode: %v", err)
	}
	if tc.Frame() != 60 {
		t.Errorf("frame = %d, want 60", tc.Frame())
	}
	if _, err := ParseTimecode("garbage", 24); err == nil {
		t.Error("ParseTimecode accepted malformed input")
	}
}
