package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColour is returned when a colour value cannot be parsed.
var ErrInvalidColour = errors.New("invalid colour")

// RGB is an 8-bit colour triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ParseRGB accepts "#rrggbb", "rrggbb", "r,g,b" and "rgb(r, g, b)".
func ParseRGB(s string) (RGB, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return RGB{}, fmt.Errorf("%w: empty", ErrInvalidColour)
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		s = s[4 : len(s)-1]
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGB{}, fmt.Errorf("%w: %q needs three components", ErrInvalidColour, s)
		}
		var values [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColour, p)
			}
			values[i] = n
		}
		return fromInts(values[0], values[1], values[2])
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q is not #rrggbb", ErrInvalidColour, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q is not #rrggbb", ErrInvalidColour, s)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

func fromInts(r, g, b int) (RGB, error) {
	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("%w: component %d out of range 0-255", ErrInvalidColour, v)
		}
	}
	return RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// UnmarshalJSON accepts [r, g, b], {"r":..,"g":..,"b":..} or any string
// form ParseRGB understands, which covers what browsers send.
func (c *RGB) UnmarshalJSON(data []byte) error {
	var arr []int
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) < 3 {
			return fmt.Errorf("%w: array needs three components", ErrInvalidColour)
		}
		// A fourth (alpha) component from canvas getImageData is ignored.
		parsed, err := fromInts(arr[0], arr[1], arr[2])
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseRGB(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var obj struct {
		R, G, B *int
	}
	if err := json.Unmarshal(data, &obj); err != nil || obj.R == nil || obj.G == nil || obj.B == nil {
		return fmt.Errorf("%w: unsupported JSON %s", ErrInvalidColour, data)
	}
	parsed, err := fromInts(*obj.R, *obj.G, *obj.B)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// buildColourMessage is the user message shared by all providers.
func buildColourMessage(c RGB) string {
	return fmt.Sprintf("Skin colour: %s, hex %s.", c, c.Hex())
}
