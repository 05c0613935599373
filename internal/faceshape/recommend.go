package faceshape

import "fmt"

// DefaultRecommendations is what callers show when the shape is unknown.
var DefaultRecommendations = []string{"oval", "rectangle"}

// recommendations maps each shape to frame styles, most recommended first.
var recommendations = map[Shape][]string{
	Round:   {"rectangle", "geometric", "browline"},
	Square:  {"round", "aviators", "browline"},
	Diamond: {"browline", "cat-eye", "oval"},
	Oblong:  {"geometric", "round", "aviators"},
	Oval:    {"round", "aviators", "cat-eye", "rectangle"},
	Heart:   {"cat-eye", "oval", "rectangle"},
}

// Recommend returns the ordered frame styles for shape. The returned slice
// is a copy and may be modified by the caller.
func Recommend(shape Shape) ([]string, error) {
	styles, ok := recommendations[shape]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, string(shape))
	}
	return append([]string(nil), styles...), nil
}

// RecommendOrDefault falls back to DefaultRecommendations for unknown shapes.
func RecommendOrDefault(shape Shape) []string {
	styles, err := Recommend(shape)
	if err != nil {
		return append([]string(nil), DefaultRecommendations...)
	}
	return styles
}
