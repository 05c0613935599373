package catalog

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// Builtin frame canvas. Lens centres sit on the horizontal midline.
const (
	frameWidth  = 400
	frameHeight = 160
	lensRadius  = 70.0
	segments    = 96
)

var (
	rimColor  = image.NewUniform(color.RGBA{R: 24, G: 22, B: 20, A: 255})
	lensColor = image.NewUniform(color.RGBA{R: 18, G: 22, B: 30, A: 56})
)

// lensShape maps an angle to a point of a unit lens outline. side is -1
// for the image-left lens and +1 for the image-right one, so asymmetric
// shapes can be mirrored.
type lensShape func(t, side float64) (x, y float64)

type frameSpec struct {
	shape    lensShape
	rx, ry   float64
	rim      float64
	browline bool
}

var frameSpecs = map[string]frameSpec{
	"round":     {shape: superellipse(2), rx: lensRadius, ry: lensRadius, rim: 7},
	"oval":      {shape: superellipse(2), rx: lensRadius * 1.15, ry: lensRadius * 0.75, rim: 7},
	"rectangle": {shape: superellipse(6), rx: lensRadius * 1.2, ry: lensRadius * 0.72, rim: 8},
	"square":    {shape: superellipse(5), rx: lensRadius, ry: lensRadius * 0.92, rim: 9},
	"geometric": {shape: polygon(6), rx: lensRadius * 1.1, ry: lensRadius * 0.95, rim: 7},
	"aviators":  {shape: teardrop, rx: lensRadius * 1.1, ry: lensRadius * 0.85, rim: 4},
	"cat-eye":   {shape: catEye, rx: lensRadius * 1.15, ry: lensRadius * 0.8, rim: 8},
	"browline":  {shape: superellipse(4), rx: lensRadius * 1.1, ry: lensRadius * 0.8, rim: 3, browline: true},
}

func superellipse(n float64) lensShape {
	return func(t, _ float64) (float64, float64) {
		return signedPow(math.Cos(t), 2/n), signedPow(math.Sin(t), 2/n)
	}
}

// polygon is a regular n-gon with a vertex on the horizontal axis.
func polygon(n int) lensShape {
	sector := 2 * math.Pi / float64(n)
	return func(t, _ float64) (float64, float64) {
		m := math.Mod(t, sector)
		if m < 0 {
			m += sector
		}
		r := math.Cos(sector/2) / math.Cos(m-sector/2)
		return r * math.Cos(t), r * math.Sin(t)
	}
}

// teardrop drops the lower half and pulls it towards the nose.
func teardrop(t, side float64) (float64, float64) {
	x, y := math.Cos(t), math.Sin(t)
	if y > 0 {
		x -= side * 0.18 * y
		y *= 1.15
	} else {
		y *= 0.85
	}
	return x, y
}

// catEye lifts the upper outer corner.
func catEye(t, side float64) (float64, float64) {
	x, y := math.Cos(t), math.Sin(t)*0.85
	if y < 0 && x*side > 0 {
		lift := math.Pow(x*side, 3) * -y
		y -= 0.5 * lift
		x += side * 0.12 * lift
	}
	return x, y
}

func signedPow(v, p float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), p), v)
}

// outline adds the lens outline scaled by (rx, ry) around (cx, cy). The
// rasterizer accumulates signed coverage, so a reversed outline drawn inside
// a forward one cuts a hole.
func outline(z *vector.Rasterizer, shape lensShape, side, cx, cy, rx, ry float64, reverse bool) {
	for i := 0; i <= segments; i++ {
		t := 2 * math.Pi * float64(i) / segments
		if reverse {
			t = -t
		}
		x, y := shape(t, side)
		px, py := float32(cx+x*rx), float32(cy+y*ry)
		if i == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
}

// rasterize draws a glasses frame for spec onto a transparent canvas.
func rasterize(spec frameSpec) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	bounds := img.Bounds()
	cy := float64(frameHeight) / 2
	z := vector.NewRasterizer(frameWidth, frameHeight)

	for _, side := range []float64{-1, 1} {
		cx := float64(frameWidth)/2 + side*float64(frameWidth)/4

		// Tinted lens.
		z.Reset(frameWidth, frameHeight)
		outline(z, spec.shape, side, cx, cy, spec.rx-spec.rim, spec.ry-spec.rim, false)
		z.Draw(img, bounds, lensColor, image.Point{})

		// Rim.
		z.Reset(frameWidth, frameHeight)
		outline(z, spec.shape, side, cx, cy, spec.rx, spec.ry, false)
		outline(z, spec.shape, side, cx, cy, spec.rx-spec.rim, spec.ry-spec.rim, true)
		z.Draw(img, bounds, rimColor, image.Point{})

		if spec.browline {
			// Heavy upper rim, clipped to the top half of the lens.
			brow := 4 * spec.rim
			z.Reset(frameWidth, frameHeight)
			outline(z, spec.shape, side, cx, cy, spec.rx, spec.ry, false)
			outline(z, spec.shape, side, cx, cy, spec.rx-brow, spec.ry-brow, true)
			z.Draw(img, image.Rect(0, 0, frameWidth, int(cy-spec.ry*0.3)), rimColor, image.Point{})
		}

		// Temple stub from the outer rim to the canvas edge.
		outerX := cx + side*(spec.rx-spec.rim)
		edge := 0.0
		if side > 0 {
			edge = frameWidth
		}
		ty := cy - spec.ry*0.55
		z.Reset(frameWidth, frameHeight)
		z.MoveTo(float32(outerX), float32(ty-4))
		z.LineTo(float32(edge), float32(ty-4))
		z.LineTo(float32(edge), float32(ty+4))
		z.LineTo(float32(outerX), float32(ty+4))
		z.ClosePath()
		z.Draw(img, bounds, rimColor, image.Point{})
	}

	// Arched bridge between the inner rims.
	left := float64(frameWidth)/4 + spec.rx - spec.rim
	right := 3*float64(frameWidth)/4 - spec.rx + spec.rim
	mid := float64(frameWidth) / 2
	by := cy - spec.ry*0.4
	z.Reset(frameWidth, frameHeight)
	z.MoveTo(float32(left), float32(by+4))
	z.QuadTo(float32(mid), float32(by-14), float32(right), float32(by+4))
	z.LineTo(float32(right), float32(by-4))
	z.QuadTo(float32(mid), float32(by-22), float32(left), float32(by-4))
	z.ClosePath()
	z.Draw(img, bounds, rimColor, image.Point{})

	return img
}
