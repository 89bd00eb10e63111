package thumbs

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/shotseek/shotseek/internal/errs"
	"github.com/shotseek/shotseek/internal/scene"
	"github.com/shotseek/shotseek/internal/timecode"
)

type fakeSeeker struct {
	frames []int64 // positions requested, in order
	failAt int64   // position that fails; -1 disables
}

func (f *fakeSeeker) ReadFrameAt(_ context.Context, frame int64) (image.Image, error) {
	if frame == f.failAt {
		return nil, errs.NewDecodeError(fmt.Sprintf("frame %d", frame), errors.New("decode failed"))
	}
	f.frames = append(f.frames, frame)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: uint8(frame), A: 255})
	return img, nil
}

func makeScenes(t *testing.T, bounds ...int64) []scene.Scene {
	t.Helper()
	scenes := make([]scene.Scene, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		start, err := timecode.FromFrames(bounds[i], 10)
		if err != nil {
			t.Fatalf("FromFrames: %v", err)
		}
		end, err := timecode.FromFrames(bounds[i+1], 10)
		if err != nil {
			t.Fatalf("FromFrames: %v", err)
		}
		scenes = append(scenes, scene.Scene{Start: start, End: end})
	}
	return scenes
}

func TestImagePositions(t *testing.T) {
	tests := []struct {
		name       string
		start, end int64
		n          int
		want       []int64
	}{
		{name: "single image at midpoint", start: 0, end: 100, n: 1, want: []int64{50}},
		{name: "three images spread", start: 0, end: 100, n: 3, want: []int64{25, 50, 75}},
		{name: "offset scene", start: 40, end: 80, n: 1, want: []int64{60}},
		{name: "short scene avoids start frame", start: 10, end: 13, n: 3, want: []int64{11, 11, 12}},
		{name: "two frame scene avoids start frame", start: 10, end: 12, n: 1, want: []int64{11}},
		{name: "one frame scene", start: 10, end: 11, n: 3, want: []int64{10, 10, 10}},
		{name: "empty scene", start: 10, end: 10, n: 2, want: nil},
		{name: "zero images", start: 0, end: 100, n: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := imagePositions(tt.start, tt.end, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("imagePositions = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("imagePositions = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFileEncoderTemplate(t *testing.T) {
	dir := t.TempDir()
	enc := &FileEncoder{
		Template:  "scene-$SCENE_NUMBER-$IMAGE_NUMBER",
		OutputDir: dir,
		Extension: "png",
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path, err := enc.Encode(img, 4, 2)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := filepath.Join(dir, "scene-004-02.png")
	if path != want {
		t.Errorf("Encode path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestExtractCounts(t *testing.T) {
	scenes := makeScenes(t, 0, 40, 100, 160)
	seeker := &fakeSeeker{failAt: -1}
	enc := &FileEncoder{
		Template:  "scene-$SCENE_NUMBER-$IMAGE_NUMBER",
		OutputDir: t.TempDir(),
		Extension: "jpg",
	}

	const perScene = 3
	saved, err := Extract(context.Background(), scenes, seeker, perScene, enc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(saved) != len(scenes) {
		t.Fatalf("saved images for %d scenes, want %d", len(saved), len(scenes))
	}
	total := 0
	for num, paths := range saved {
		if len(paths) != perScene {
			t.Errorf("scene %d has %d images, want %d", num, len(paths), perScene)
		}
		total += len(paths)
	}
	if total != perScene*len(scenes) {
		t.Errorf("saved %d images total, want %d", total, perScene*len(scenes))
	}
	if len(seeker.frames) != total {
		t.Errorf("decoded %d frames, want %d", len(seeker.frames), total)
	}
}

func TestExtractContinuesPastFailingScene(t *testing.T) {
	scenes := makeScenes(t, 0, 40, 100, 160)
	// Scene 2 spans [40, 100); its midpoint frame 70 fails to decode.
	seeker := &fakeSeeker{failAt: 70}
	enc := &FileEncoder{
		Template:  "scene-$SCENE_NUMBER-$IMAGE_NUMBER",
		OutputDir: t.TempDir(),
		Extension: "jpg",
	}

	saved, err := Extract(context.Background(), scenes, seeker, 1, enc)
	if err == nil {
		t.Fatal("Extract returned nil error, want joined failure")
	}
	if !errs.IsKind(err, errs.KindDecode) {
		t.Errorf("Extract error = %v, want decode kind", err)
	}
	if len(saved[1]) != 1 || len(saved[3]) != 1 {
		t.Errorf("scenes 1 and 3 should still save images, got %v", saved)
	}
	if len(saved[2]) != 0 {
		t.Errorf("failing scene saved %d images, want 0", len(saved[2]))
	}
}

func TestExtractInvalidImagesPerScene(t *testing.T) {
	_, err := Extract(context.Background(), nil, &fakeSeeker{failAt: -1}, 0, nil)
	if !errs.IsKind(err, errs.KindConfig) {
		t.Errorf("Extract with 0 images per scene = %v, want config error", err)
	}
}
