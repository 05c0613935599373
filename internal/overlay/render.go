package overlay

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Render draws source onto a new RGBA raster of the same bounds and then
// blends accessory over it, scaled to the placement size and rotated about
// the placement center. Neither input is modified.
func Render(source, accessory image.Image, placement Placement) (*image.RGBA, error) {
	if source == nil || source.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidImage)
	}
	if accessory == nil || accessory.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty accessory", ErrInvalidImage)
	}
	if err := placement.validate(); err != nil {
		return nil, err
	}

	bounds := source.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, source, bounds.Min, draw.Src)

	sr := accessory.Bounds()
	draw.BiLinear.Transform(dst, accessoryTransform(sr, placement), accessory, sr, draw.Over, nil)

	return dst, nil
}

// accessoryTransform maps accessory pixel space to destination space:
// scale to the target size, move the accessory center to the origin,
// rotate, then move it to the placement center.
func accessoryTransform(sr image.Rectangle, p Placement) f64.Aff3 {
	kx := p.Width / float64(sr.Dx())
	ky := p.Height / float64(sr.Dy())

	rad := p.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	c := p.Center()

	a, b := cos*kx, -sin*ky
	d, e := sin*kx, cos*ky
	tx := c.X - cos*p.Width/2 + sin*p.Height/2
	ty := c.Y - sin*p.Width/2 - cos*p.Height/2

	// Account for accessories whose bounds do not start at the origin.
	minX, minY := float64(sr.Min.X), float64(sr.Min.Y)
	tx -= a*minX + b*minY
	ty -= d*minX + e*minY

	return f64.Aff3{
		a, b, tx,
		d, e, ty,
	}
}

// AspectRatio returns width/height of an image.
func AspectRatio(img image.Image) float64 {
	b := img.Bounds()
	if b.Dy() == 0 {
		return 0
	}
	return float64(b.Dx()) / float64(b.Dy())
}

// Composite computes the placement for accessory and renders it. Either the
// complete composited image is returned or an error; never a partial draw.
func Composite(source, accessory image.Image, landmarks *LandmarkSet) (*image.RGBA, Placement, error) {
	if accessory == nil || accessory.Bounds().Empty() {
		return nil, Placement{}, fmt.Errorf("%w: empty accessory", ErrInvalidImage)
	}
	placement, err := ComputePlacement(landmarks, AspectRatio(accessory))
	if err != nil {
		return nil, Placement{}, err
	}
	out, err := Render(source, accessory, placement)
	if err != nil {
		return nil, Placement{}, err
	}
	return out, placement, nil
}
