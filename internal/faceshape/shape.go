// Package faceshape classifies a face into one of six shapes from landmark
// proportions and maps shapes to recommended eyeglass frame styles.
package faceshape

import (
	"errors"
	"fmt"
	"strings"
)

// Shape is one of a closed set of face-shape tags.
type Shape string

const (
	Round   Shape = "round"
	Square  Shape = "square"
	Diamond Shape = "diamond"
	Oblong  Shape = "oblong"
	Oval    Shape = "oval"
	Heart   Shape = "heart"
)

// ErrUnknownShape is returned for tags outside the closed set.
var ErrUnknownShape = errors.New("unknown face shape")

// Shapes lists every valid shape.
var Shapes = []Shape{Round, Square, Diamond, Oblong, Oval, Heart}

// ParseShape converts a tag (case-insensitive) into a Shape.
func ParseShape(s string) (Shape, error) {
	shape := Shape(strings.ToLower(strings.TrimSpace(s)))
	if !shape.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
	}
	return shape, nil
}

// Valid reports whether s belongs to the closed set.
func (s Shape) Valid() bool {
	switch s {
	case Round, Square, Diamond, Oblong, Oval, Heart:
		return true
	}
	return false
}
