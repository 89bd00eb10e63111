// Package source yields decoded frames in order from one or more
// concatenated video files.
//
// All attached inputs must share one frame rate; positions reported to
// callers are cumulative frame indices across the whole concatenation. An
// optional window restricts decoding to a frame range and a downscale
// factor subsamples frames spatially before they reach the detectors.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/shotseek/shotseek/internal/decode"
	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/ffprobe"
	"github.com/shotseek/shotseek/internal/logging"
	"github.com/shotseek/shotseek/internal/timecode"
)

// ErrEndOfStream signals normal exhaustion of a frame source. It is a
// sentinel, not a failure.
var ErrEndOfStream = errors.New("end of stream")

// minAnalysisWidth is the frame width the automatic downscale factor
// preserves. Narrower analysis frames would distort histogram signals.
const minAnalysisWidth = 256

// AutoDownscaleFactor returns the downscale factor used when none is set:
// the largest integer factor that keeps the analyzed width at or above
// minAnalysisWidth.
func AutoDownscaleFactor(width int) int {
	f := width / minAnalysisWidth
	if f < 1 {
		return 1
	}
	return f
}

// input is one attached video file. offset is the cumulative frame index
// of the file's first frame.
type input struct {
	path   string
	info   *ffprobe.Info
	offset int64
}

// frameStream abstracts the sequential decode of one input.
type frameStream interface {
	Next() (*decode.Frame, error)
	Close() error
}

// VideoSource is a FrameSource over one or more concatenated video files.
// It is not safe for concurrent use; the underlying decode handle is owned
// exclusively by the source.
type VideoSource struct {
	inputs []*input

	rate   float64
	width  int
	height int
	total  int64 // 0 when unknown

	downscale int // 0 selects automatic at Start
	winStart  int64
	winEnd    int64 // -1 when unbounded

	started  bool
	released bool

	pos    int64 // cumulative index of the next frame to deliver
	cur    int
	stream frameStream

	// Indirection for tests; production values are set by New.
	probe      func(string) (*ffprobe.Info, error)
	openStream func(context.Context, decode.StreamOptions) (frameStream, error)
}

// New creates an empty VideoSource. Attach at least one input before Start.
func New() *VideoSource {
	return &VideoSource{
		winEnd: -1,
		probe:  ffprobe.Probe,
		openStream: func(ctx context.Context, opts decode.StreamOptions) (frameStream, error) {
			return decode.OpenStream(ctx, opts)
		},
	}
}

// Attach appends a video input to the concatenation. May only be called
// before Start.
func (s *VideoSource) Attach(path string) error {
	if s.started {
		return errs.NewConfigError("cannot attach inputs after Start")
	}
	if path == "" {
		return errs.NewConfigError("empty input path")
	}
	s.inputs = append(s.inputs, &input{path: path})
	return nil
}

// SetWindow restricts analysis to [start, end], inclusive of both frame
// indices. A nil bound leaves that side open. Calling SetWindow again
// intersects with the window already applied. Bounds are validated against
// the total duration at Start, when it is known.
func (s *VideoSource) SetWindow(start, end *timecode.Timecode) error {
	if s.started {
		return errs.NewConfigError("cannot set window after Start")
	}
	if start != nil && end != nil {
		if start.Rate() != end.Rate() {
			return errs.NewConfigErrorf("window bounds have different frame rates %v and %v", start.Rate(), end.Rate())
		}
		if start.Frame() > end.Frame() {
			return errs.NewConfigErrorf("window start %d is after end %d", start.Frame(), end.Frame())
		}
	}

	if start != nil && start.Frame() > s.winStart {
		s.winStart = start.Frame()
	}
	if end != nil && (s.winEnd < 0 || end.Frame() < s.winEnd) {
		s.winEnd = end.Frame()
	}
	if s.winEnd >= 0 && s.winStart > s.winEnd {
		return errs.NewConfigErrorf("window intersection is empty: start %d after end %d", s.winStart, s.winEnd)
	}
	return nil
}

// SetDownscaleFactor sets the spatial subsampling factor applied before
// frames reach detectors. Zero restores the automatic factor. May only be
// called before Start.
func (s *VideoSource) SetDownscaleFactor(f int) error {
	if s.started {
		return errs.NewConfigError("cannot set downscale factor after Start")
	}
	if f < 0 {
		return errs.NewConfigErrorf("downscale factor must be at least 1, got %d", f)
	}
	s.downscale = f
	return nil
}

// Start probes all inputs, validates the configuration and opens the first
// decode stream. Probe failures surface as I/O errors; mismatched frame
// rates across inputs are a configuration error.
func (s *VideoSource) Start(ctx context.Context) error {
	if s.started {
		return errs.NewConfigError("source already started")
	}
	if s.released {
		return errs.NewConfigError("source already released")
	}
	if len(s.inputs) == 0 {
		return errs.NewConfigError("no inputs attached")
	}

	var offset int64
	for i, in := range s.inputs {
		info, err := s.probe(in.path)
		if err != nil {
			return errs.NewIOError(fmt.Sprintf("opening input %s", in.path), err)
		}
		in.info = info
		in.offset = offset

		if i == 0 {
			s.rate = info.FrameRate
			s.width = info.Width
			s.height = info.Height
		} else if info.FrameRate != s.rate {
			return errs.NewConfigErrorf("input %s frame rate %v does not match %v",
				in.path, info.FrameRate, s.rate)
		}

		if info.FrameCount == 0 && i != len(s.inputs)-1 {
			return errs.NewConfigErrorf("input %s has unknown frame count; only the final input may", in.path)
		}
		offset += info.FrameCount
	}

	if last := s.inputs[len(s.inputs)-1]; last.info.FrameCount > 0 {
		s.total = offset
	}

	if s.total > 0 {
		if s.winStart >= s.total {
			return errs.NewConfigErrorf("window start %d exceeds total frames %d", s.winStart, s.total)
		}
		if s.winEnd >= s.total {
			return errs.NewConfigErrorf("window end %d exceeds total frames %d", s.winEnd, s.total)
		}
	}

	if s.downscale == 0 {
		s.downscale = AutoDownscaleFactor(s.width)
		logging.Debug("auto downscale factor selected",
			"factor", s.downscale, "width", s.width)
	}

	s.started = true
	s.pos = s.winStart

	idx, _, ok := s.locate(s.winStart)
	if !ok {
		// Window starts past the final known frame; nothing to decode.
		s.cur = len(s.inputs)
		return nil
	}
	s.cur = idx
	return s.openCurrent(ctx)
}

// Started reports whether Start has completed successfully.
func (s *VideoSource) Started() bool {
	return s.started
}

// FrameRate returns the shared frame rate of the concatenation. Valid
// after Start.
func (s *VideoSource) FrameRate() float64 {
	return s.rate
}

// TotalFrames returns the total frame count across all inputs, or 0 when
// unknown.
func (s *VideoSource) TotalFrames() int64 {
	return s.total
}

// Resolution returns the native width and height of the first input.
func (s *VideoSource) Resolution() (int, int) {
	return s.width, s.height
}

// DownscaleFactor returns the effective downscale factor. Valid after Start.
func (s *VideoSource) DownscaleFactor() int {
	return s.downscale
}

// Position returns the cumulative position of the next frame to be read.
func (s *VideoSource) Position() (timecode.Timecode, error) {
	if !s.started {
		return timecode.Timecode{}, errs.NewConfigError("source not started")
	}
	return timecode.FromFrames(s.pos, s.rate)
}

// locate translates a cumulative frame index into (input index, local
// frame index). It is a pure function over the offset table built at Start.
func (s *VideoSource) locate(global int64) (int, int64, bool) {
	if global < 0 {
		return 0, 0, false
	}
	for i, in := range s.inputs {
		local := global - in.offset
		if local < 0 {
			return 0, 0, false
		}
		count := in.info.FrameCount
		if local < count || (count == 0 && i == len(s.inputs)-1) {
			return i, local, true
		}
	}
	return 0, 0, false
}

// openCurrent starts decoding the input at s.cur, clipped to the window.
func (s *VideoSource) openCurrent(ctx context.Context) error {
	in := s.inputs[s.cur]

	localStart := s.winStart - in.offset
	if localStart < 0 {
		localStart = 0
	}
	localEnd := int64(-1)
	if s.winEnd >= 0 {
		localEnd = s.winEnd - in.offset
		if in.info.FrameCount > 0 && localEnd >= in.info.FrameCount {
			localEnd = -1 // window extends past this input; decode it fully
		}
	}

	outW := s.width / s.downscale
	outH := s.height / s.downscale
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}

	stream, err := s.openStream(ctx, decode.StreamOptions{
		Path:       in.path,
		Width:      outW,
		Height:     outH,
		StartFrame: localStart,
		EndFrame:   localEnd,
	})
	if err != nil {
		return err
	}
	s.stream = stream
	return nil
}

// ReadFrame returns the next decoded frame and its cumulative position, or
// ErrEndOfStream once the concatenation (or the window) is exhausted. It
// transitions across input boundaries automatically.
func (s *VideoSource) ReadFrame(ctx context.Context) (*decode.Frame, int64, error) {
	if s.released {
		return nil, 0, errs.NewConfigError("source already released")
	}
	if !s.started {
		return nil, 0, errs.NewConfigError("source not started")
	}

	for {
		if s.winEnd >= 0 && s.pos > s.winEnd {
			return nil, 0, ErrEndOfStream
		}
		if s.stream == nil {
			return nil, 0, ErrEndOfStream
		}

		frame, err := s.stream.Next()
		if err == nil {
			pos := s.pos
			s.pos++
			return frame, pos, nil
		}
		if !errors.Is(err, io.EOF) {
			return nil, 0, err
		}

		// Current input exhausted; advance to the next one in the window.
		_ = s.stream.Close()
		s.stream = nil
		s.cur++
		if s.cur >= len(s.inputs) {
			return nil, 0, ErrEndOfStream
		}
		// The next frame to deliver is the first frame of the next input.
		if next := s.inputs[s.cur].offset; s.pos < next {
			s.pos = next
		}
		if err := s.openCurrent(ctx); err != nil {
			return nil, 0, err
		}
	}
}

// ReadFrameAt decodes the single frame at the given cumulative position at
// native resolution and full color. Used by the thumbnail pass; it runs an
// independent decode and does not disturb the sequential stream.
func (s *VideoSource) ReadFrameAt(ctx context.Context, global int64) (image.Image, error) {
	if !s.started {
		return nil, errs.NewConfigError("source not started")
	}
	idx, local, ok := s.locate(global)
	if !ok {
		return nil, errs.NewConfigErrorf("frame %d outside the concatenation", global)
	}
	return decode.ExtractFrame(ctx, s.inputs[idx].path, local)
}

// Release closes all decode handles. Idempotent and safe after errors;
// the source is terminal afterwards.
func (s *VideoSource) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	if s.stream != nil {
		_ = s.stream.Close()
		s.stream = nil
	}
	return nil
}
