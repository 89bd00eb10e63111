// Package detect provides single-pass scene cut detectors.
//
// A detector consumes decoded frames strictly in order, one at a time, and
// emits the positions of detected cuts. Detectors keep only the state of
// the immediately preceding frame; they never look ahead or seek. Each
// detector value belongs to exactly one detection pass and must not be
// shared across concurrently running pipelines.
package detect

import (
	"github.com/shotseek/shotseek/internal/decode"
)

// Detector is the capability shared by all cut detection algorithms.
type Detector interface {
	// ProcessFrame consumes the next frame at the given cumulative position
	// and returns the positions of any cuts confirmed by it.
	ProcessFrame(f *decode.Frame, pos int64) ([]int64, error)

	// PostProcess is called once after the last frame and returns any cuts
	// that could only be confirmed at end of stream. Detectors with no
	// finalization return nil.
	PostProcess() []int64
}

// histogram computes a 256-bin intensity histogram normalized so the bins
// sum to 1.
func histogram(f *decode.Frame) []float64 {
	var counts [256]int64
	for _, p := range f.Pix {
		counts[p]++
	}

	h := make([]float64, 256)
	total := float64(len(f.Pix))
	if total == 0 {
		return h
	}
	for i, c := range counts {
		h[i] = float64(c) / total
	}
	return h
}

// histogramScore is the normalized difference between two frame histograms:
// half the L1 distance, scaled to 0-100. Identical frames score 0; frames
// with no overlapping intensity mass score 100.
func histogramScore(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / 2 * 100
}
