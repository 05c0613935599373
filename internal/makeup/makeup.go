// Package makeup derives a warm/cool skin tone from a photo and suggests
// makeup colours and application tips.
package makeup

import (
	"fmt"
	"image"

	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// Tone is the skin undertone.
type Tone string

const (
	Warm Tone = "warm"
	Cool Tone = "cool"
)

// cheekLandmark is the iBUG jaw point next to the cheek.
const cheekLandmark = 1

// sampleRadius is the half-size of the averaging window around the cheek.
const sampleRadius = 2

// Colours lists colour names for one product.
type Colours struct {
	Colors []string `json:"colors"`
}

// Recommendation bundles palette and tips for one face.
type Recommendation struct {
	Tone      Tone     `json:"skin_tone"`
	Blush     Colours  `json:"blush"`
	Eyeshadow Colours  `json:"eyeshadow"`
	Lipstick  Colours  `json:"lipstick"`
	General   []string `json:"general"`
}

// SampleSkinTone averages a small window around the cheek landmark. The tone
// is warm when red outweighs blue.
func SampleSkinTone(img image.Image, landmarks *overlay.LandmarkSet) (Tone, error) {
	if img == nil {
		return "", overlay.ErrInvalidImage
	}
	p, err := landmarks.Point(cheekLandmark)
	if err != nil {
		return "", err
	}

	b := img.Bounds()
	cx, cy := int(p.X), int(p.Y)
	window := image.Rect(cx-sampleRadius, cy-sampleRadius, cx+sampleRadius+1, cy+sampleRadius+1).Intersect(b)
	if window.Empty() {
		return "", fmt.Errorf("%w: cheek point (%.0f, %.0f) outside image", overlay.ErrInvalidLandmarks, p.X, p.Y)
	}

	var rSum, bSum uint64
	for y := window.Min.Y; y < window.Max.Y; y++ {
		for x := window.Min.X; x < window.Max.X; x++ {
			r, _, bl, _ := img.At(x, y).RGBA()
			rSum += uint64(r)
			bSum += uint64(bl)
		}
	}

	if rSum > bSum {
		return Warm, nil
	}
	return Cool, nil
}

// palettes: blush, eyeshadow, lipstick.
var palettes = map[Tone][3][]string{
	Warm: {
		{"Peach", "Coral", "Orange-based pinks"},
		{"Gold", "Bronze", "Copper"},
		{"Warm red", "Coral", "Terra cotta"},
	},
	Cool: {
		{"Rose", "Pink", "Plum"},
		{"Silver", "Taupe", "Cool brown"},
		{"Blue-based red", "Berry", "Mauve"},
	},
}

// Palette returns blush, eyeshadow and lipstick colours for tone. Unknown
// tones get the cool palette.
func Palette(tone Tone) (blush, eyeshadow, lipstick []string) {
	p, ok := palettes[tone]
	if !ok {
		p = palettes[Cool]
	}
	return clone(p[0]), clone(p[1]), clone(p[2])
}

// Tips returns general application tips for the shape's family.
func Tips(shape faceshape.Shape) []string {
	switch shape {
	case faceshape.Round, faceshape.Square:
		return []string{
			"Use contouring to create the illusion of length",
			"Apply blush at an angle towards temples",
		}
	case faceshape.Oval, faceshape.Oblong:
		return []string{
			"Focus on horizontal makeup techniques",
			"Apply blush horizontally across cheeks",
		}
	default:
		return []string{
			"Highlight cheekbones",
			"Soften angular features with rounded application",
		}
	}
}

// Recommend combines Palette and Tips.
func Recommend(shape faceshape.Shape, tone Tone) Recommendation {
	blush, eyeshadow, lipstick := Palette(tone)
	return Recommendation{
		Tone:      tone,
		Blush:     Colours{Colors: blush},
		Eyeshadow: Colours{Colors: eyeshadow},
		Lipstick:  Colours{Colors: lipstick},
		General:   Tips(shape),
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
