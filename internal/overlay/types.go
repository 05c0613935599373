// Package overlay places accessory images (glasses frames) onto a photo using
// facial landmarks. Everything here is a pure function of its inputs: no state
// is kept between calls and inputs are never modified.
package overlay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Indices into the 68-point iBUG layout produced by dlib and face-api.js.
const (
	JawStart       = 0
	JawEnd         = 16
	BrowStart      = 17
	BrowEnd        = 26
	NoseBridgeTop  = 27
	LeftEyeStart   = 36 // image-left eye, 36 is its outer corner
	LeftEyeInner   = 39
	RightEyeStart  = 42 // image-right eye, 42 is its inner corner
	RightEyeOuter  = 45
	NumIBUGPoints  = 68
	minContourSize = 4
)

// Point is a 2D coordinate in source-image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnmarshalJSON accepts {"x": .., "y": ..} objects and [x, y] pairs, the
// latter being what face-api.js positions serialise to.
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("point needs 2 coordinates, got %d", len(pair))
		}
		p.X, p.Y = pair[0], pair[1]
		return nil
	}

	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.X == nil || obj.Y == nil {
		return fmt.Errorf("point needs x and y, got %s", data)
	}
	p.X, p.Y = *obj.X, *obj.Y
	return nil
}

// Contour is an ordered eye outline. Index 0 is the outer corner and index
// len/2 is the inner corner, which fits both [outer, top, inner, bottom] and
// the six point iBUG eye re-ordered to start at the outer corner.
type Contour []Point

// Outer returns the outer eye corner.
func (c Contour) Outer() Point {
	return c[0]
}

// Inner returns the inner eye corner.
func (c Contour) Inner() Point {
	return c[len(c)/2]
}

// MeanY averages the vertical coordinate of every contour point.
func (c Contour) MeanY() float64 {
	var sum float64
	for _, p := range c {
		sum += p.Y
	}
	return sum / float64(len(c))
}

// Center combines the horizontal midpoint of the corners with the mean y.
func (c Contour) Center() Point {
	return Point{
		X: (c.Outer().X + c.Inner().X) / 2,
		Y: c.MeanY(),
	}
}

func (c Contour) validate(name string) error {
	if len(c) < minContourSize {
		return fmt.Errorf("%w: %s contour has %d points, need at least %d", ErrInvalidLandmarks, name, len(c), minContourSize)
	}
	for i, p := range c {
		if !finite(p.X) || !finite(p.Y) {
			return fmt.Errorf("%w: %s contour point %d is not finite", ErrInvalidLandmarks, name, i)
		}
	}
	return nil
}

// LandmarkSet is the detector output for one face. LeftEye is the eye on the
// left side of the image. Points holds the full detector output when the
// detector produced one (68 points for the iBUG layout) and may be empty.
type LandmarkSet struct {
	LeftEye  Contour `json:"left_eye"`
	RightEye Contour `json:"right_eye"`
	Points   []Point `json:"points,omitempty"`
}

// Validate checks both eye contours.
func (l *LandmarkSet) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: no landmarks", ErrInvalidLandmarks)
	}
	if err := l.LeftEye.validate("left eye"); err != nil {
		return err
	}
	return l.RightEye.validate("right eye")
}

// Point returns the landmark at index i of the full detector output.
func (l *LandmarkSet) Point(i int) (Point, error) {
	if l == nil || i < 0 || i >= len(l.Points) {
		return Point{}, fmt.Errorf("%w: landmark %d not available", ErrInvalidLandmarks, i)
	}
	return l.Points[i], nil
}

// HasFullLayout reports whether all 68 iBUG points are present.
func (l *LandmarkSet) HasFullLayout() bool {
	return l != nil && len(l.Points) >= NumIBUGPoints
}

// FromIBUG68 builds a landmark set from the 68-point layout. The returned
// set owns a copy of points.
func FromIBUG68(points []Point) (*LandmarkSet, error) {
	if len(points) < NumIBUGPoints {
		return nil, fmt.Errorf("%w: got %d points, need %d", ErrInvalidLandmarks, len(points), NumIBUGPoints)
	}
	all := make([]Point, NumIBUGPoints)
	copy(all, points)

	// 36..41: outer, top, top, inner, bottom, bottom
	left := Contour{all[36], all[37], all[38], all[39], all[40], all[41]}
	// 42..47 starts at the inner corner; rotate so the outer corner (45) leads.
	right := Contour{all[45], all[46], all[47], all[42], all[43], all[44]}

	set := &LandmarkSet{LeftEye: left, RightEye: right, Points: all}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// FromPairs converts [[x, y], ...] pairs, the shape most landmark services
// and face-api.js return, into points.
func FromPairs(pairs [][2]float64) []Point {
	points := make([]Point, len(pairs))
	for i, p := range pairs {
		points[i] = Point{X: p[0], Y: p[1]}
	}
	return points
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
