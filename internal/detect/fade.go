package detect

import (
	"github.com/shotseek/shotseek/internal/decode"
)

// FadeDetector finds cuts where the picture fades through a dark floor:
// mean frame intensity dropping below the threshold and coming back up. The
// cut is reported at the fade-in frame. If the stream ends while still
// faded out, PostProcess reports a final cut at the frame where the
// fade-out began.
type FadeDetector struct {
	threshold   float64
	minSceneLen int64

	sawFrame  bool
	below     bool
	fadeStart int64
	lastCut   int64
	hasCut    bool
}

// NewFadeDetector creates a fade detector. threshold is the mean intensity
// (0-255) under which a frame counts as faded out.
func NewFadeDetector(threshold float64, minSceneLen int64) *FadeDetector {
	if minSceneLen < 1 {
		minSceneLen = 1
	}
	return &FadeDetector{
		threshold:   threshold,
		minSceneLen: minSceneLen,
	}
}

// MinSceneLen returns the detector's cut spacing in frames.
func (d *FadeDetector) MinSceneLen() int64 {
	return d.minSceneLen
}

// ProcessFrame implements Detector.
func (d *FadeDetector) ProcessFrame(f *decode.Frame, pos int64) ([]int64, error) {
	below := f.MeanIntensity() < d.threshold

	if !d.sawFrame {
		d.sawFrame = true
		d.below = below
		if below {
			d.fadeStart = pos
		}
		return nil, nil
	}

	defer func() { d.below = below }()

	switch {
	case below && !d.below:
		// Fade-out begins; remember where in case the stream ends here.
		d.fadeStart = pos
	case !below && d.below:
		// Fade-in: the new scene starts on this frame.
		if d.hasCut && pos-d.lastCut < d.minSceneLen {
			return nil, nil
		}
		d.lastCut = pos
		d.hasCut = true
		return []int64{pos}, nil
	}

	return nil, nil
}

// PostProcess implements Detector: a stream that ends faded out yields a
// final cut at the start of the trailing fade.
func (d *FadeDetector) PostProcess() []int64 {
	if !d.below || !d.sawFrame {
		return nil
	}
	if d.hasCut && d.fadeStart-d.lastCut < d.minSceneLen {
		return nil
	}
	return []int64{d.fadeStart}
}
