package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		dir, photo, style string
		expected          string
	}{
		{"out", "selfies/me.jpg", "aviators", filepath.Join("out", "me-jpg-aviators.jpg")},
		{"out", "selfies/me.PNG", "aviators", filepath.Join("out", "me-png-aviators.jpg")},
		{"out", "me.final.png", "cat-eye", filepath.Join("out", "me.final-png-cat-eye.jpg")},
		{".", "noext", "round", "noext-round.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.photo, func(t *testing.T) {
			if got := outputPath(tt.dir, tt.photo, tt.style); got != tt.expected {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.dir, tt.photo, tt.style, got, tt.expected)
			}
		})
	}
}

func TestFindTryOnJobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jpg", "a.json", "b.PNG", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	jobs, err := findTryOnJobs(dir)
	if err != nil {
		t.Fatalf("findTryOnJobs: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d: %+v", len(jobs), jobs)
	}

	byPhoto := make(map[string]string)
	for _, j := range jobs {
		byPhoto[filepath.Base(j.photo)] = j.landmarks
	}
	if byPhoto["a.jpg"] != filepath.Join(dir, "a.json") {
		t.Errorf("expected a.jpg to use its sidecar, got %q", byPhoto["a.jpg"])
	}
	if byPhoto["b.PNG"] != "" {
		t.Errorf("expected b.PNG without landmarks, got %q", byPhoto["b.PNG"])
	}
	if _, ok := byPhoto["c.webp"]; !ok {
		t.Error("expected c.webp to be picked up")
	}
}

func TestFindTryOnJobs_MissingDir(t *testing.T) {
	if _, err := findTryOnJobs(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestOutputPath_DistinctForSameName(t *testing.T) {
	jpg := outputPath("out", "a.jpg", "round")
	png := outputPath("out", "a.png", "round")
	if jpg == png {
		t.Errorf("a.jpg and a.png both render to %s", jpg)
	}
}

// writeTestFace writes a 400x400 PNG and a matching 68-point landmark file.
func writeTestFace(t *testing.T, dir, name string) (photo, landmarks string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 400, 400))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 220, G: 190, B: 170, A: 255}), image.Point{}, draw.Src)
	data, err := overlay.EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	photo = filepath.Join(dir, name+".png")
	if err := os.WriteFile(photo, data, 0o644); err != nil {
		t.Fatal(err)
	}

	points := make([][2]float64, overlay.NumIBUGPoints)
	for i := range points {
		points[i] = [2]float64{200, 200}
	}
	copy(points[36:42], [][2]float64{{150, 170}, {160, 165}, {170, 165}, {180, 170}, {170, 175}, {160, 175}})
	copy(points[42:48], [][2]float64{{220, 170}, {230, 165}, {240, 165}, {250, 170}, {240, 175}, {230, 175}})
	raw, _ := json.Marshal(points)
	landmarks = filepath.Join(dir, name+".json")
	if err := os.WriteFile(landmarks, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	return photo, landmarks
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	photo, landmarks := writeTestFace(t, dir, "me")
	r := &renderer{frames: catalog.Builtin(), detector: detect.None{}}

	outputs, err := r.render(context.Background(), tryOnJob{photo: photo, landmarks: landmarks}, []string{"round", "aviators"},
		func(style string) string { return outputPath(dir, photo, style) })
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	for _, o := range outputs {
		if o.Photo != photo {
			t.Errorf("expected photo %s, got %s", photo, o.Photo)
		}
		data, err := os.ReadFile(o.Output)
		if err != nil {
			t.Fatalf("missing output %s: %v", o.Output, err)
		}
		if _, format, err := overlay.Decode(data); err != nil || format != "jpeg" {
			t.Errorf("%s is not a JPEG: %v", o.Output, err)
		}
	}
}

func TestRenderer_RenderRemovesPartialOutputs(t *testing.T) {
	dir := t.TempDir()
	photo, landmarks := writeTestFace(t, dir, "me")
	r := &renderer{frames: catalog.Builtin(), detector: detect.None{}}

	_, err := r.render(context.Background(), tryOnJob{photo: photo, landmarks: landmarks}, []string{"round", "monocle"},
		func(style string) string { return outputPath(dir, photo, style) })
	if !errors.Is(err, catalog.ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle, got %v", err)
	}
	if _, err := os.Stat(outputPath(dir, photo, "round")); !os.IsNotExist(err) {
		t.Errorf("expected the round output to be removed, stat error %v", err)
	}
}

func TestRenderer_RenderWithoutLandmarksNeedsDetector(t *testing.T) {
	dir := t.TempDir()
	photo, _ := writeTestFace(t, dir, "me")
	r := &renderer{frames: catalog.Builtin(), detector: detect.None{}}

	_, err := r.render(context.Background(), tryOnJob{photo: photo}, []string{"round"},
		func(style string) string { return outputPath(dir, photo, style) })
	if !errors.Is(err, detect.ErrDetectorUnavailable) {
		t.Errorf("expected ErrDetectorUnavailable, got %v", err)
	}
}
