// Package ffprobe provides functions for extracting media information using ffprobe.
package ffprobe

import (
	"encoding/json"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/shotseek/shotseek/internal/errs"
)

// Info contains the video stream properties the detection pipeline needs.
type Info struct {
	Path      string
	Width     int
	Height    int
	FrameRate float64
	// FrameCount is the number of frames in the stream. When the container
	// does not record nb_frames it is estimated from duration and frame
	// rate; 0 means unknown.
	FrameCount int64
	Duration   float64
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

// runFFprobe executes ffprobe and returns the parsed output.
func runFFprobe(inputPath string) (*ffprobeOutput, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errs.NewCommandFailedError("ffprobe", exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, errs.NewCommandStartError("ffprobe", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, errs.NewFFprobeParseError("invalid ffprobe JSON output for " + inputPath)
	}

	return &probe, nil
}

// Probe extracts the video stream properties of the given input file.
func Probe(inputPath string) (*Info, error) {
	probe, err := runFFprobe(inputPath)
	if err != nil {
		return nil, err
	}
	return infoFromProbe(inputPath, probe)
}

func infoFromProbe(inputPath string, probe *ffprobeOutput) (*Info, error) {
	var video *ffprobeStream
	for i := range probe.Streams {
		if probe.Streams[i].CodecType == "video" {
			video = &probe.Streams[i]
			break
		}
	}
	if video == nil {
		return nil, errs.NewFFprobeParseError("no video stream in " + inputPath)
	}

	rate := parseFrameRate(video.RFrameRate)
	if rate <= 0 {
		rate = parseFrameRate(video.AvgFrameRate)
	}
	if rate <= 0 {
		return nil, errs.NewFFprobeParseError("cannot determine frame rate of " + inputPath)
	}

	if video.Width <= 0 || video.Height <= 0 {
		return nil, errs.NewFFprobeParseError("cannot determine resolution of " + inputPath)
	}

	duration, _ := strconv.ParseFloat(video.Duration, 64)
	if duration <= 0 {
		duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}

	frameCount, _ := strconv.ParseInt(video.NbFrames, 10, 64)
	if frameCount <= 0 && duration > 0 {
		frameCount = int64(math.Round(duration * rate))
	}
	if frameCount < 0 {
		frameCount = 0
	}

	return &Info{
		Path:       inputPath,
		Width:      video.Width,
		Height:     video.Height,
		FrameRate:  rate,
		FrameCount: frameCount,
		Duration:   duration,
	}, nil
}

// parseFrameRate parses an ffprobe rational frame rate ("30000/1001") or a
// plain decimal ("25"). Returns 0 when the value is absent or malformed.
func parseFrameRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
