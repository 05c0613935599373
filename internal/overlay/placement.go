package overlay

import (
	"fmt"
	"math"
)

// GlassesWidthMultiplier scales the outer-corner eye span to the frame width.
// Tuned by eye against the bundled frames.
const GlassesWidthMultiplier = 2.2

// Placement is the geometry of one accessory render: top-left corner,
// target size and clockwise rotation in degrees (image y axis points down).
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
}

// Center returns the point the accessory is rotated about.
func (p Placement) Center() Point {
	return Point{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

func (p Placement) validate() error {
	if !finite(p.X) || !finite(p.Y) || !finite(p.Angle) {
		return fmt.Errorf("%w: non-finite geometry %+v", ErrInvalidPlacement, p)
	}
	if !(p.Width > 0) || !(p.Height > 0) || !finite(p.Width) || !finite(p.Height) {
		return fmt.Errorf("%w: size %.2fx%.2f", ErrInvalidPlacement, p.Width, p.Height)
	}
	return nil
}

// ComputePlacement derives where a glasses frame with the given
// width/height aspect ratio goes on a face.
func ComputePlacement(landmarks *LandmarkSet, aspectRatio float64) (Placement, error) {
	if err := landmarks.Validate(); err != nil {
		return Placement{}, err
	}
	if !(aspectRatio > 0) || !finite(aspectRatio) {
		return Placement{}, fmt.Errorf("%w: accessory aspect ratio %v", ErrInvalidPlacement, aspectRatio)
	}

	leftCenter := landmarks.LeftEye.Center()
	rightCenter := landmarks.RightEye.Center()

	eyeSpan := math.Abs(landmarks.RightEye.Outer().X - landmarks.LeftEye.Outer().X)
	if eyeSpan == 0 {
		return Placement{}, fmt.Errorf("%w: outer eye corners share x=%.2f", ErrInvalidLandmarks, landmarks.LeftEye.Outer().X)
	}

	dx := rightCenter.X - leftCenter.X
	if dx == 0 {
		return Placement{}, fmt.Errorf("%w: eye centers share x=%.2f", ErrInvalidLandmarks, leftCenter.X)
	}
	dy := rightCenter.Y - leftCenter.Y

	width := eyeSpan * GlassesWidthMultiplier
	height := width / aspectRatio
	center := Point{
		X: (leftCenter.X + rightCenter.X) / 2,
		Y: (leftCenter.Y + rightCenter.Y) / 2,
	}

	return Placement{
		X:      center.X - width/2,
		Y:      center.Y - height/2,
		Width:  width,
		Height: height,
		Angle:  math.Atan(dy/dx) * 180 / math.Pi,
	}, nil
}
