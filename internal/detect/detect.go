// Package detect turns a photo into facial landmarks. Detection is a
// boundary: the compositor never calls a detector itself.
package detect

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

var (
	// ErrNotFound means the detector ran but found no face.
	ErrNotFound = errors.New("no face found")
	// ErrDetectorUnavailable means no detector is configured or compiled in.
	ErrDetectorUnavailable = errors.New("landmark detector not available")
)

// Detector finds the landmarks of the most prominent face in an image.
type Detector interface {
	Name() string
	Detect(ctx context.Context, imageData []byte) (*overlay.LandmarkSet, error)
}

// Options selects a detector.
type Options struct {
	LandmarkURL string // remote landmark service, takes precedence
	ModelsDir   string // dlib models for the go-face detector
}

// New returns the configured detector. Without configuration it returns
// None, which fails every call with ErrDetectorUnavailable.
func New(opts Options) (Detector, error) {
	if opts.LandmarkURL != "" {
		return NewRemoteDetector(opts.LandmarkURL), nil
	}
	if opts.ModelsDir != "" {
		d, err := NewGoFaceDetector(opts.ModelsDir)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return None{}, nil
}

// None is the detector used when nothing is configured.
type None struct{}

func (None) Name() string { return "none" }

func (None) Detect(context.Context, []byte) (*overlay.LandmarkSet, error) {
	return nil, ErrDetectorUnavailable
}

// FromPoints builds a landmark set from either detector layout: the 68
// point iBUG layout or the 5 point layout (four eye corners and the nose).
func FromPoints(points []overlay.Point) (*overlay.LandmarkSet, error) {
	switch {
	case len(points) >= overlay.NumIBUGPoints:
		return overlay.FromIBUG68(points)
	case len(points) == 5:
		return fromFivePoints(points)
	default:
		return nil, fmt.Errorf("%w: unsupported layout with %d points", overlay.ErrInvalidLandmarks, len(points))
	}
}

// fromFivePoints expands the two corners of each eye into a four point
// contour [outer, mid, inner, mid]. The eyes are told apart by x position so
// the corner order of the model does not matter.
func fromFivePoints(points []overlay.Point) (*overlay.LandmarkSet, error) {
	eyes := [][2]overlay.Point{
		{points[0], points[1]},
		{points[2], points[3]},
	}
	sort.Slice(eyes, func(i, j int) bool {
		return eyes[i][0].X+eyes[i][1].X < eyes[j][0].X+eyes[j][1].X
	})

	faceX := (eyes[0][0].X + eyes[0][1].X + eyes[1][0].X + eyes[1][1].X) / 4
	contour := func(a, b overlay.Point) overlay.Contour {
		outer, inner := a, b
		if math.Abs(b.X-faceX) > math.Abs(a.X-faceX) {
			outer, inner = b, a
		}
		mid := overlay.Point{X: (outer.X + inner.X) / 2, Y: (outer.Y + inner.Y) / 2}
		return overlay.Contour{outer, mid, inner, mid}
	}

	set := &overlay.LandmarkSet{
		LeftEye:  contour(eyes[0][0], eyes[0][1]),
		RightEye: contour(eyes[1][0], eyes[1][1]),
		Points:   append([]overlay.Point(nil), points...),
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
