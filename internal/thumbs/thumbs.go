// Package thumbs extracts representative still images from detected
// scenes.
package thumbs

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/logging"
	"github.com/shotseek/shotseek/internal/scene"
)

// Seeker decodes single frames by cumulative position. Implemented by
// source.VideoSource.
type Seeker interface {
	ReadFrameAt(ctx context.Context, frame int64) (image.Image, error)
}

// Encoder persists one extracted image and returns where it went.
type Encoder interface {
	Encode(img image.Image, sceneNumber, imageNumber int) (string, error)
}

// FileEncoder writes images to disk, expanding $SCENE_NUMBER and
// $IMAGE_NUMBER in the filename template. Both numbers are 1-based.
type FileEncoder struct {
	// Template is the output filename without extension, e.g.
	// "scene-$SCENE_NUMBER-$IMAGE_NUMBER".
	Template string

	// OutputDir receives the files. Empty means the current directory.
	OutputDir string

	// Extension selects the format by file extension, e.g. "jpg" or "png".
	Extension string
}

// Encode renders the template and saves the image.
func (e *FileEncoder) Encode(img image.Image, sceneNumber, imageNumber int) (string, error) {
	name := e.Template
	name = strings.ReplaceAll(name, "$SCENE_NUMBER", fmt.Sprintf("%03d", sceneNumber))
	name = strings.ReplaceAll(name, "$IMAGE_NUMBER", fmt.Sprintf("%02d", imageNumber))

	path := filepath.Join(e.OutputDir, name+"."+strings.TrimPrefix(e.Extension, "."))
	if err := imaging.Save(img, path); err != nil {
		return "", errs.NewIOError(fmt.Sprintf("saving image %s", path), err)
	}
	return path, nil
}

// imagePositions returns the n frame positions sampled from the scene
// [start, end). Samples sit at even interior fractions of the span, so a
// single image lands on the scene midpoint and never on the boundary
// frames of adjacent scenes. Short scenes round the first samples toward
// the start; those stay off the start frame as long as the scene has a
// second frame to use.
func imagePositions(start, end int64, n int) []int64 {
	span := end - start
	if span <= 0 || n <= 0 {
		return nil
	}
	out := make([]int64, 0, n)
	for k := 1; k <= n; k++ {
		pos := start + span*int64(k)/int64(n+1)
		if pos >= end {
			pos = end - 1
		}
		if pos <= start && start+1 < end {
			pos = start + 1
		}
		out = append(out, pos)
	}
	return out
}

// Extract saves imagesPerScene stills for every scene, keyed by 1-based
// scene number. A failure on one scene skips that scene's remaining images
// but extraction continues with the next scene; all failures are joined
// into the returned error. Files already written are kept either way.
func Extract(ctx context.Context, scenes []scene.Scene, src Seeker, imagesPerScene int, enc Encoder) (map[int][]string, error) {
	if imagesPerScene < 1 {
		return nil, errs.NewConfigErrorf("images per scene must be at least 1, got %d", imagesPerScene)
	}

	log := logging.Global().WithComponent("thumbs")
	saved := make(map[int][]string, len(scenes))
	var failures []error

	for i, sc := range scenes {
		sceneNumber := i + 1
		positions := imagePositions(sc.Start.Frame(), sc.End.Frame(), imagesPerScene)

		for j, pos := range positions {
			if err := ctx.Err(); err != nil {
				failures = append(failures, errs.NewCancelledError(err))
				return saved, errors.Join(failures...)
			}

			img, err := src.ReadFrameAt(ctx, pos)
			if err != nil {
				failures = append(failures, fmt.Errorf("scene %d: %w", sceneNumber, err))
				break
			}
			path, err := enc.Encode(img, sceneNumber, j+1)
			if err != nil {
				failures = append(failures, fmt.Errorf("scene %d: %w", sceneNumber, err))
				break
			}
			saved[sceneNumber] = append(saved[sceneNumber], path)
			log.Debug("saved scene image", "scene", sceneNumber, "frame", pos, "path", path)
		}
	}

	return saved, errors.Join(failures...)
}
