// Package scene drives detectors over a frame source and aggregates the
// cuts they report into a contiguous scene list.
package scene

import (
	"context"
	"errors"
	"sort"

	"github.com/shotseek/shotseek/internal/config"
	"github.com/shotseek/shotseek/internal/decode"
	"github.com/shotseek/shotseek/internal/detect"
	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/logging"
	"github.com/shotseek/shotseek/internal/source"
	"github.com/shotseek/shotseek/internal/timecode"
)

// FrameSource is the slice of a video source the manager needs. It is
// implemented by source.VideoSource.
type FrameSource interface {
	FrameRate() float64
	Started() bool
	Start(ctx context.Context) error
	SetWindow(start, end *timecode.Timecode) error
	ReadFrame(ctx context.Context) (*decode.Frame, int64, error)
}

// Scene is one contiguous span of frames. Start is inclusive; End is
// exclusive, pointing one past the last frame of the scene.
type Scene struct {
	Start timecode.Timecode
	End   timecode.Timecode
}

// NumFrames returns the number of frames the scene spans.
func (s Scene) NumFrames() int64 {
	return s.End.Frame() - s.Start.Frame()
}

// Options controls a single DetectScenes pass.
type Options struct {
	// Start and End restrict the pass to a frame window on the source.
	// Either may be nil.
	Start *timecode.Timecode
	End   *timecode.Timecode

	// Callback, when set, is invoked synchronously for each cut confirmed
	// during the frame loop, with the frame that opened the new scene and
	// its position. Cuts produced by detector post-processing after the
	// stream ends do not trigger it.
	Callback func(frame *decode.Frame, position timecode.Timecode)

	// Progress, when set, is invoked every ProgressInterval frames with
	// the position just processed and the running cut count.
	Progress func(position int64, cuts int)
}

// ProgressInterval is how many frames pass between Progress invocations.
const ProgressInterval = 64

// Manager accumulates cuts from one or more detectors across one or more
// detection passes. Not safe for concurrent use.
type Manager struct {
	detectors []detect.Detector

	// minSceneLen is the manager-level spacing floor applied when merging
	// cuts from multiple detectors or passes.
	minSceneLen int64

	cuts []int64 // sorted, deduplicated, strictly increasing

	rate     float64
	startPos int64 // position of the first frame ever read
	endPos   int64 // position of the last frame ever read
	seen     bool  // at least one frame read across all passes
	log      *logging.Logger
}

// NewManager creates a Manager with the default minimum scene length.
func NewManager() *Manager {
	return &Manager{
		minSceneLen: config.DefaultMinSceneLen,
		log:         logging.Global().WithComponent("scene"),
	}
}

// SetMinSceneLen overrides the minimum frame spacing enforced between
// accepted cuts.
func (m *Manager) SetMinSceneLen(frames int64) error {
	if frames < 1 {
		return errs.NewConfigErrorf("minimum scene length must be at least 1 frame, got %d", frames)
	}
	m.minSceneLen = frames
	return nil
}

// AddDetector registers a detector. All registered detectors see every
// frame of every detection pass.
func (m *Manager) AddDetector(d detect.Detector) {
	m.detectors = append(m.detectors, d)
}

// addCut merges a cut position into the sorted cut list, dropping it when
// a cut already sits within the minimum scene length. Returns whether the
// cut was accepted.
func (m *Manager) addCut(pos int64) bool {
	i := sort.Search(len(m.cuts), func(i int) bool { return m.cuts[i] >= pos })
	if i < len(m.cuts) && m.cuts[i] == pos {
		return false
	}
	if i > 0 && pos-m.cuts[i-1] < m.minSceneLen {
		return false
	}
	if i < len(m.cuts) && m.cuts[i]-pos < m.minSceneLen {
		return false
	}
	m.cuts = append(m.cuts, 0)
	copy(m.cuts[i+1:], m.cuts[i:])
	m.cuts[i] = pos
	return true
}

// DetectScenes reads the source to exhaustion (or to the window end),
// feeding every frame to all registered detectors. It returns the number
// of frames processed in this pass. Cuts accumulate across passes; call
// it again with a later window to resume.
func (m *Manager) DetectScenes(ctx context.Context, src FrameSource, opts Options) (int64, error) {
	if len(m.detectors) == 0 {
		return 0, errs.NewConfigError("no detectors registered")
	}

	if opts.Start != nil || opts.End != nil {
		if err := src.SetWindow(opts.Start, opts.End); err != nil {
			return 0, err
		}
	}
	if !src.Started() {
		if err := src.Start(ctx); err != nil {
			return 0, err
		}
	}

	rate := src.FrameRate()
	if rate <= 0 {
		return 0, errs.NewConfigErrorf("source frame rate %v is not positive", rate)
	}
	m.rate = rate

	var processed int64
	for {
		if err := ctx.Err(); err != nil {
			return processed, errs.NewCancelledError(err)
		}

		frame, pos, err := src.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, source.ErrEndOfStream) {
				break
			}
			return processed, err
		}

		if !m.seen || pos < m.startPos {
			m.startPos = pos
		}
		if !m.seen || pos > m.endPos {
			m.endPos = pos
		}
		m.seen = true
		processed++

		for _, d := range m.detectors {
			cuts, err := d.ProcessFrame(frame, pos)
			if err != nil {
				return processed, err
			}
			for _, cut := range cuts {
				if !m.addCut(cut) {
					continue
				}
				m.log.Debug("cut detected", "frame", cut)
				if opts.Callback != nil {
					tc, err := timecode.FromFrames(cut, rate)
					if err != nil {
						return processed, err
					}
					opts.Callback(frame, tc)
				}
			}
		}

		if opts.Progress != nil && processed%ProgressInterval == 0 {
			opts.Progress(pos, len(m.cuts))
		}
	}

	for _, d := range m.detectors {
		for _, cut := range d.PostProcess() {
			if m.addCut(cut) {
				m.log.Debug("cut finalized after stream end", "frame", cut)
			}
		}
	}

	return processed, nil
}

// SceneList converts the accumulated cuts into contiguous scenes covering
// every frame read so far. The first scene starts at the first frame read;
// the last scene ends one past the last frame read. Cuts at or outside
// those bounds do not split scenes. Calling it repeatedly without further
// detection returns the same list.
func (m *Manager) SceneList() ([]Scene, error) {
	if !m.seen {
		return nil, nil
	}

	bounds := make([]int64, 0, len(m.cuts)+2)
	bounds = append(bounds, m.startPos)
	for _, cut := range m.cuts {
		if cut > m.startPos && cut <= m.endPos {
			bounds = append(bounds, cut)
		}
	}
	bounds = append(bounds, m.endPos+1)

	scenes := make([]Scene, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, err := timecode.FromFrames(bounds[i], m.rate)
		if err != nil {
			return nil, err
		}
		end, err := timecode.FromFrames(bounds[i+1], m.rate)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, Scene{Start: start, End: end})
	}
	return scenes, nil
}

// CutList returns the accepted cut positions as timecodes.
func (m *Manager) CutList() ([]timecode.Timecode, error) {
	out := make([]timecode.Timecode, 0, len(m.cuts))
	for _, cut := range m.cuts {
		tc, err := timecode.FromFrames(cut, m.rate)
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, nil
}

// Clear discards accumulated cuts and frame bounds, keeping the registered
// detectors.
func (m *Manager) Clear() {
	m.cuts = nil
	m.seen = false
	m.startPos = 0
	m.endPos = 0
}
