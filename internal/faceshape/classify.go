package faceshape

import (
	"fmt"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// Measurements are the proportions the rule table works on.
type Measurements struct {
	LengthToWidth  float64 `json:"length_to_width"` // face length / cheekbone width
	JawToCheek     float64 `json:"jaw_to_cheek"`    // jaw width / cheekbone width
	ForeheadToJaw  float64 `json:"forehead_to_jaw"` // forehead width / jaw width
	CheekboneWidth float64 `json:"cheekbone_width"`
	JawWidth       float64 `json:"jaw_width"`
}

// rule is one row of the decision table.
type rule struct {
	shape Shape
	match func(m Measurements, t Thresholds) bool
}

// rules are evaluated in order; the last one always matches.
var rules = []rule{
	{Oblong, func(m Measurements, t Thresholds) bool {
		return m.LengthToWidth > t.Oblong.MinLengthToWidth
	}},
	{Heart, func(m Measurements, t Thresholds) bool {
		return m.ForeheadToJaw > t.Heart.MinForeheadToJaw && m.JawToCheek < t.Heart.MaxJawToCheek
	}},
	{Diamond, func(m Measurements, t Thresholds) bool {
		return m.CheekboneWidth > m.JawWidth*t.Diamond.MinCheekToJaw && m.ForeheadToJaw < t.Diamond.MaxForeheadToJaw
	}},
	{Square, func(m Measurements, t Thresholds) bool {
		return m.JawToCheek >= t.Square.MinJawToCheek && m.LengthToWidth <= t.Square.MaxLengthToWidth
	}},
	{Round, func(m Measurements, t Thresholds) bool {
		return m.LengthToWidth <= t.Round.MaxLengthToWidth
	}},
	{Oval, func(Measurements, Thresholds) bool { return true }},
}

// Classify runs the rule table over m. It is total: every input maps to a shape.
func Classify(m Measurements, t Thresholds) Shape {
	for _, r := range rules {
		if r.match(m, t) {
			return r.shape
		}
	}
	return Oval
}

// Measure derives the proportions from a 68-point landmark set.
func Measure(landmarks *overlay.LandmarkSet) (Measurements, error) {
	if !landmarks.HasFullLayout() {
		n := 0
		if landmarks != nil {
			n = len(landmarks.Points)
		}
		return Measurements{}, fmt.Errorf("%w: shape analysis needs %d points, got %d", overlay.ErrInvalidLandmarks, overlay.NumIBUGPoints, n)
	}
	p := landmarks.Points

	faceLength := p[8].Y - p[overlay.NoseBridgeTop].Y // chin to nose bridge
	cheekboneWidth := p[15].X - p[1].X
	jawWidth := p[12].X - p[4].X
	foreheadWidth := p[overlay.BrowEnd].X - p[overlay.BrowStart].X

	if cheekboneWidth <= 0 || jawWidth <= 0 {
		return Measurements{}, fmt.Errorf("%w: degenerate face widths (cheekbone %.1f, jaw %.1f)", overlay.ErrInvalidLandmarks, cheekboneWidth, jawWidth)
	}

	return Measurements{
		LengthToWidth:  faceLength / cheekboneWidth,
		JawToCheek:     jawWidth / cheekboneWidth,
		ForeheadToJaw:  foreheadWidth / jawWidth,
		CheekboneWidth: cheekboneWidth,
		JawWidth:       jawWidth,
	}, nil
}

// ClassifyLandmarks measures landmarks and classifies the result.
func ClassifyLandmarks(landmarks *overlay.LandmarkSet, t Thresholds) (Shape, Measurements, error) {
	m, err := Measure(landmarks)
	if err != nil {
		return "", Measurements{}, err
	}
	return Classify(m, t), m, nil
}
