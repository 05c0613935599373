package detect

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// ParseLandmarks decodes landmarks sent by a client. Accepted shapes:
//
//	[[x, y], ...]                         68 or 5 point detector output
//	[{"x": .., "y": ..}, ...]             same, as objects
//	{"left_eye": [...], "right_eye": [...], "points": [...]}
//
// Every point may be an [x, y] pair or an {"x", "y"} object, also inside the
// object form, which may omit the eyes when points carries a full layout.
func ParseLandmarks(data []byte) (*overlay.LandmarkSet, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, fmt.Errorf("%w: no landmarks", overlay.ErrInvalidLandmarks)
	}

	if data[0] == '[' {
		var points []overlay.Point
		if err := json.Unmarshal(data, &points); err != nil {
			return nil, fmt.Errorf("%w: %v", overlay.ErrInvalidLandmarks, err)
		}
		return FromPoints(points)
	}

	var set overlay.LandmarkSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", overlay.ErrInvalidLandmarks, err)
	}
	if len(set.LeftEye) == 0 && len(set.RightEye) == 0 {
		return FromPoints(set.Points)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}
