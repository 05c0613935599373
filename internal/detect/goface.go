//go:build goface

package detect

import (
	"context"
	"fmt"
	"sync"

	face "github.com/Kagami/go-face"

	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// GoFaceAvailable reports whether the in-process detector is compiled in.
const GoFaceAvailable = true

// GoFaceDetector runs dlib in-process through go-face. It needs
// shape_predictor_5_face_landmarks.dat and the recognition models in the
// models directory.
type GoFaceDetector struct {
	mu  sync.Mutex
	rec *face.Recognizer
}

// NewGoFaceDetector loads the dlib models from modelsDir.
func NewGoFaceDetector(modelsDir string) (*GoFaceDetector, error) {
	logging.Info(logging.Fields{"dir": modelsDir}, "loading face recognition models")
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load recognizer: %w", err)
	}
	return &GoFaceDetector{rec: rec}, nil
}

// Name returns the detector name.
func (d *GoFaceDetector) Name() string {
	return "goface"
}

// Detect returns the landmarks of the largest face. go-face only decodes JPEG.
func (d *GoFaceDetector) Detect(ctx context.Context, imageData []byte) (*overlay.LandmarkSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	faces, err := d.rec.Recognize(imageData)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to detect faces: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNotFound
	}

	best := faces[0]
	for _, f := range faces[1:] {
		if f.Rectangle.Dx()*f.Rectangle.Dy() > best.Rectangle.Dx()*best.Rectangle.Dy() {
			best = f
		}
	}

	points := make([]overlay.Point, len(best.Shapes))
	for i, p := range best.Shapes {
		points[i] = overlay.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return FromPoints(points)
}

// Close releases the dlib models.
func (d *GoFaceDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rec.Close()
}
