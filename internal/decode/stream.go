package decode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/shotseek/shotseek/internal/errs"
)

// StreamOptions configures a sequential decode of one input file.
type StreamOptions struct {
	Path string

	// Output dimensions handed to the scale filter. These are the input
	// dimensions divided by the downscale factor.
	Width  int
	Height int

	// StartFrame is the first frame (in this file's local numbering) to
	// deliver. EndFrame is the last, inclusive; -1 decodes to end of file.
	StartFrame int64
	EndFrame   int64
}

// filter builds the -vf chain: frame window selection, spatial downscale,
// grayscale conversion.
func (o StreamOptions) filter() string {
	var parts []string

	switch {
	case o.EndFrame >= 0:
		parts = append(parts, fmt.Sprintf("select=between(n\\,%d\\,%d)", o.StartFrame, o.EndFrame))
	case o.StartFrame > 0:
		parts = append(parts, fmt.Sprintf("select=gte(n\\,%d)", o.StartFrame))
	}

	// flags=area averages source pixels when shrinking, which keeps
	// frame-to-frame difference ordering stable at analysis resolution.
	parts = append(parts, fmt.Sprintf("scale=%d:%d:flags=area", o.Width, o.Height))
	parts = append(parts, "format=gray")

	return strings.Join(parts, ",")
}

func (o StreamOptions) args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", o.Path,
		"-an", "-sn",
		"-vf", o.filter(),
		"-vsync", "0",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"pipe:1",
	}
}

// Stream is a running sequential decode of one input file.
type Stream struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    bytes.Buffer
	frameSize int
	width     int
	height    int
	closed    bool
}

// OpenStream starts an ffmpeg decode process for the given options.
func OpenStream(ctx context.Context, opts StreamOptions) (*Stream, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errs.NewConfigErrorf("invalid decode dimensions %dx%d", opts.Width, opts.Height)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", opts.args()...)

	s := &Stream{
		cmd:       cmd,
		frameSize: opts.Width * opts.Height,
		width:     opts.Width,
		height:    opts.Height,
	}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errs.NewIOError("creating ffmpeg stdout pipe", err)
	}
	s.stdout = stdout

	if err := cmd.Start(); err != nil {
		return nil, errs.NewCommandStartError("ffmpeg", err)
	}

	return s, nil
}

// Next reads the next decoded frame. It returns io.EOF once the stream is
// exhausted; any other error means the decode failed.
func (s *Stream) Next() (*Frame, error) {
	if s.closed {
		return nil, io.EOF
	}

	buf := make([]byte, s.frameSize)
	_, err := io.ReadFull(s.stdout, buf)
	switch err {
	case nil:
		return &Frame{Pix: buf, Width: s.width, Height: s.height}, nil
	case io.EOF:
		if werr := s.wait(); werr != nil {
			return nil, werr
		}
		return nil, io.EOF
	case io.ErrUnexpectedEOF:
		_ = s.wait()
		return nil, errs.NewDecodeError(
			fmt.Sprintf("truncated frame from ffmpeg: %s", s.stderrTail()), nil)
	default:
		_ = s.wait()
		return nil, errs.NewDecodeError("reading frame from ffmpeg", err)
	}
}

// wait reaps the ffmpeg process and reports a non-zero exit as a decode
// error. Safe to call once; subsequent calls return nil.
func (s *Stream) wait() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return errs.NewCommandFailedError("ffmpeg", exitErr.ExitCode(), s.stderrTail())
		}
		return errs.NewDecodeError("waiting for ffmpeg", err)
	}
	return nil
}

func (s *Stream) stderrTail() string {
	out := strings.TrimSpace(s.stderr.String())
	const limit = 512
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Close terminates the decode process. Idempotent and safe after errors.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.stdout.Close()
	_ = s.cmd.Wait()
	return nil
}
