package detect

import (
	"github.com/shotseek/shotseek/internal/decode"
)

// ContentDetector finds cuts where the intensity distribution changes
// discontinuously between consecutive frames.
//
// Each frame is reduced to a normalized 256-bin grayscale histogram. The
// running score is the histogram difference to the previous frame on a
// 0-100 scale; a cut is reported when the score strictly exceeds the
// threshold and the previous reported cut is at least MinSceneLen frames
// away. The first frame never triggers (it has no predecessor), and a score
// exactly at the threshold does not trigger.
type ContentDetector struct {
	threshold   float64
	minSceneLen int64

	lastHist []float64
	lastCut  int64
	hasCut   bool
}

// NewContentDetector creates a content detector. threshold is the 0-100
// histogram difference score above which a cut is reported; minSceneLen is
// the minimum spacing between reported cuts in frames.
func NewContentDetector(threshold float64, minSceneLen int64) *ContentDetector {
	if minSceneLen < 1 {
		minSceneLen = 1
	}
	return &ContentDetector{
		threshold:   threshold,
		minSceneLen: minSceneLen,
	}
}

// MinSceneLen returns the detector's cut spacing in frames.
func (d *ContentDetector) MinSceneLen() int64 {
	return d.minSceneLen
}

// ProcessFrame implements Detector.
func (d *ContentDetector) ProcessFrame(f *decode.Frame, pos int64) ([]int64, error) {
	hist := histogram(f)
	prev := d.lastHist
	d.lastHist = hist

	if prev == nil {
		return nil, nil
	}

	score := histogramScore(hist, prev)
	if score <= d.threshold {
		return nil, nil
	}
	if d.hasCut && pos-d.lastCut < d.minSceneLen {
		return nil, nil
	}

	d.lastCut = pos
	d.hasCut = true
	return []int64{pos}, nil
}

// PostProcess implements Detector. The content detector confirms every cut
// on the frame that produced it, so there is nothing to finalize.
func (d *ContentDetector) PostProcess() []int64 {
	return nil
}
