package decode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png" // registers the decoder for ffmpeg's png pipe output
	"os/exec"
	"strings"

	"github.com/shotseek/shotseek/internal/errs"
)

// ExtractFrame decodes the single frame at the given local index of the
// input file, at native resolution and in full color. Used by the thumbnail
// pass, where analysis downscaling must not apply.
func ExtractFrame(ctx context.Context, path string, frame int64) (image.Image, error) {
	if frame < 0 {
		return nil, errs.NewConfigErrorf("negative frame index %d", frame)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-an", "-sn",
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", frame),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errs.NewCommandFailedError("ffmpeg", exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, errs.NewCommandStartError("ffmpeg", err)
	}
	if len(out) == 0 {
		return nil, errs.NewDecodeError(fmt.Sprintf("no frame %d in %s", frame, path), nil)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errs.NewDecodeError("decoding image from ffmpeg", err)
	}

	return img, nil
}
