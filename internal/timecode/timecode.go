// Package timecode provides an immutable frame-accurate time position type.
//
// A Timecode pairs a frame index with a fixed frame rate and converts
// losslessly between frame counts, wall-clock seconds, and HH:MM:SS.mmm
// strings. All position arithmetic in the detection pipeline goes through
// this type so that long videos accumulate no floating point drift.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shotseek/shotseek/internal/errs"
)

// Timecode is an immutable position within a fixed frame rate stream.
// The zero value is not valid; use one of the constructors.
type Timecode struct {
	frame int64
	rate  float64
}

// FromFrames creates a Timecode at the given frame index.
func FromFrames(frame int64, rate float64) (Timecode, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return Timecode{}, errs.NewConfigErrorf("frame rate must be positive, got %v", rate)
	}
	if frame < 0 {
		return Timecode{}, errs.NewConfigErrorf("frame number must be non-negative, got %d", frame)
	}
	return Timecode{frame: frame, rate: rate}, nil
}

// FromSeconds creates a Timecode at the given number of seconds, rounded to
// the nearest frame. An exact half-frame rounds toward zero.
func FromSeconds(seconds float64, rate float64) (Timecode, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return Timecode{}, errs.NewConfigErrorf("frame rate must be positive, got %v", rate)
	}
	if seconds < 0 || math.IsNaN(seconds) {
		return Timecode{}, errs.NewConfigErrorf("seconds must be non-negative, got %v", seconds)
	}
	return Timecode{frame: roundToFrame(seconds, rate), rate: rate}, nil
}

// roundToFrame converts seconds to a frame index, nearest frame with exact
// .5 ties toward zero.
func roundToFrame(seconds, rate float64) int64 {
	return int64(math.Ceil(seconds*rate - 0.5))
}

// Parse creates a Timecode from a string. Accepted forms:
//
//	HH:MM:SS        e.g. "00:01:30"
//	HH:MM:SS.sss    e.g. "00:01:30.500"
//	bare seconds    e.g. "90", "90.5", "90s"
func Parse(s string, rate float64) (Timecode, error) {
	if rate <= 0 || math.IsNaN(rate) {
		return Timecode{}, errs.NewConfigErrorf("frame rate must be positive, got %v", rate)
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Timecode{}, errs.NewFormatError("empty timecode string")
	}

	var seconds float64
	if strings.Contains(trimmed, ":") {
		var err error
		seconds, err = parseClock(trimmed)
		if err != nil {
			return Timecode{}, err
		}
	} else {
		sec := strings.TrimSuffix(trimmed, "s")
		v, err := strconv.ParseFloat(sec, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Timecode{}, errs.NewFormatErrorf("invalid seconds value %q", s)
		}
		seconds = v
	}

	return Timecode{frame: roundToFrame(seconds, rate), rate: rate}, nil
}

// parseClock parses an HH:MM:SS[.sss] string into seconds.
func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, errs.NewFormatErrorf("timecode %q must be in HH:MM:SS[.nnn] format", s)
	}

	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, errs.NewFormatErrorf("invalid hours in timecode %q", s)
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || minutes > 59 {
		return 0, errs.NewFormatErrorf("invalid minutes in timecode %q", s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, errs.NewFormatErrorf("invalid seconds in timecode %q", s)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// Frame returns the frame index.
func (t Timecode) Frame() int64 {
	return t.frame
}

// Rate returns the frame rate.
func (t Timecode) Rate() float64 {
	return t.rate
}

// Seconds returns the position in seconds.
func (t Timecode) Seconds() float64 {
	return float64(t.frame) / t.rate
}

// String formats the position as HH:MM:SS.mmm with millisecond precision.
func (t Timecode) String() string {
	ms := int64(math.Round(t.Seconds() * 1000))
	hours := ms / 3600000
	ms -= hours * 3600000
	minutes := ms / 60000
	ms -= minutes * 60000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}

// Add returns a new Timecode advanced by delta frames. Results below frame
// zero clamp to zero.
func (t Timecode) Add(delta int64) Timecode {
	frame := t.frame + delta
	if frame < 0 {
		frame = 0
	}
	return Timecode{frame: frame, rate: t.rate}
}

// Sub returns a new Timecode moved back by delta frames, clamped at zero.
func (t Timecode) Sub(delta int64) Timecode {
	return t.Add(-delta)
}

// Cmp compares two Timecodes, returning -1, 0 or +1. Comparing Timecodes
// with different frame rates is a configuration error, never a silent
// coercion.
func (t Timecode) Cmp(o Timecode) (int, error) {
	if t.rate != o.rate {
		return 0, errs.NewConfigErrorf("cannot compare timecodes with frame rates %v and %v", t.rate, o.rate)
	}
	switch {
	case t.frame < o.frame:
		return -1, nil
	case t.frame > o.frame:
		return 1, nil
	default:
		return 0, nil
	}
}

// Before reports whether t is strictly earlier than o.
func (t Timecode) Before(o Timecode) (bool, error) {
	c, err := t.Cmp(o)
	return c < 0, err
}

// Equal reports whether t and o are the same position at the same rate.
func (t Timecode) Equal(o Timecode) (bool, error) {
	c, err := t.Cmp(o)
	return c == 0, err
}
