package detect

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

func ibugPairs() [][2]float64 {
	pairs := make([][2]float64, overlay.NumIBUGPoints)
	for i := range pairs {
		pairs[i] = [2]float64{float64(100 + i), float64(200 + i%10)}
	}
	return pairs
}

func TestParseLandmarks(t *testing.T) {
	pairs, _ := json.Marshal(ibugPairs())
	objects, _ := json.Marshal(overlay.FromPairs(ibugPairs()))

	tests := []struct {
		name      string
		input     string
		wantOuter float64
		wantErr   bool
	}{
		{"pairs", string(pairs), 136, false},
		{"objects", string(objects), 136, false},
		{"five points", `[[100,50],[80,50],[20,50],[40,50],[60,80]]`, 20, false},
		{"eyes only", `{"left_eye":[{"x":10,"y":5},{"x":12,"y":4},{"x":14,"y":5},{"x":12,"y":6}],"right_eye":[{"x":30,"y":5},{"x":28,"y":4},{"x":26,"y":5},{"x":28,"y":6}]}`, 10, false},
		{"points object", `{"points":` + string(pairs) + `}`, 136, false},
		{"points object as objects", `{"points":` + string(objects) + `}`, 136, false},
		{"eyes as pairs", `{"left_eye":[[10,5],[12,4],[14,5],[12,6]],"right_eye":[[30,5],[28,4],[26,5],[28,6]]}`, 10, false},
		{"mixed points", `[[100,50],{"x":80,"y":50},[20,50],{"x":40,"y":50},[60,80]]`, 20, false},
		{"three coordinates", `[[1,2,3],[3,4,5],[5,6,7],[7,8,9],[9,10,11]]`, 0, true},
		{"point without y", `[{"x":1},{"x":2},{"x":3},{"x":4},{"x":5}]`, 0, true},
		{"empty", ``, 0, true},
		{"null", `null`, 0, true},
		{"too few points", `[[1,2],[3,4]]`, 0, true},
		{"short contour", `{"left_eye":[{"x":1,"y":1}],"right_eye":[{"x":2,"y":2}]}`, 0, true},
		{"garbage", `{"left_eye":"nope"}`, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set, err := ParseLandmarks([]byte(tc.input))
			if tc.wantErr {
				if !errors.Is(err, overlay.ErrInvalidLandmarks) {
					t.Fatalf("expected ErrInvalidLandmarks, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := set.LeftEye.Outer().X; got != tc.wantOuter {
				t.Errorf("expected left eye outer x %v, got %v", tc.wantOuter, got)
			}
		})
	}
}
