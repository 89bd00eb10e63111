package detect

import (
	"github.com/corona10/goimagehash"

	"github.com/shotseek/shotseek/internal/decode"
	"github.com/shotseek/shotseek/internal/errs"
)

// HashDetector finds cuts from perceptual hash distance between consecutive
// frames. It is robust against gradual lighting change (which the content
// detector scores highly) but blind to cuts between structurally similar
// shots.
type HashDetector struct {
	maxDistance int
	minSceneLen int64

	lastHash *goimagehash.ImageHash
	lastCut  int64
	hasCut   bool
}

// NewHashDetector creates a hash detector. maxDistance is the hamming
// distance between consecutive 64-bit perception hashes above which a cut
// is reported.
func NewHashDetector(maxDistance int, minSceneLen int64) *HashDetector {
	if minSceneLen < 1 {
		minSceneLen = 1
	}
	return &HashDetector{
		maxDistance: maxDistance,
		minSceneLen: minSceneLen,
	}
}

// MinSceneLen returns the detector's cut spacing in frames.
func (d *HashDetector) MinSceneLen() int64 {
	return d.minSceneLen
}

// ProcessFrame implements Detector.
func (d *HashDetector) ProcessFrame(f *decode.Frame, pos int64) ([]int64, error) {
	hash, err := goimagehash.PerceptionHash(f.Gray())
	if err != nil {
		return nil, errs.NewDecodeError("hashing frame", err)
	}

	prev := d.lastHash
	d.lastHash = hash

	if prev == nil {
		return nil, nil
	}

	dist, err := hash.Distance(prev)
	if err != nil {
		return nil, errs.NewDecodeError("comparing frame hashes", err)
	}

	if dist <= d.maxDistance {
		return nil, nil
	}
	if d.hasCut && pos-d.lastCut < d.minSceneLen {
		return nil, nil
	}

	d.lastCut = pos
	d.hasCut = true
	return []int64{pos}, nil
}

// PostProcess implements Detector.
func (d *HashDetector) PostProcess() []int64 {
	return nil
}
