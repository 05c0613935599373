package handlers

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
)

func TestStylesHandler_List(t *testing.T) {
	handler := NewStylesHandler(catalog.Builtin())
	recorder := httptest.NewRecorder()

	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/styles", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result StylesResponse
	parseJSONResponse(t, recorder, &result)

	if len(result.Styles) != len(catalog.Styles) {
		t.Errorf("expected %d styles, got %d", len(catalog.Styles), len(result.Styles))
	}
	square := result.Recommendations["square"]
	if len(square) != 3 || square[0] != "round" {
		t.Errorf("unexpected square recommendations %v", square)
	}
	if len(result.Recommendations) != 6 {
		t.Errorf("expected recommendations for 6 shapes, got %d", len(result.Recommendations))
	}
}

func TestStylesHandler_Frame(t *testing.T) {
	handler := NewStylesHandler(catalog.Builtin())

	tests := []struct {
		name       string
		style      string
		wantStatus int
	}{
		{"builtin", "aviators", http.StatusOK},
		{"normalised tag", "Cat Eye", http.StatusOK},
		{"unknown", "monocle", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithChiParams(httptest.NewRequest(http.MethodGet, "/api/v1/styles/x", nil), map[string]string{"style": tc.style})
			recorder := httptest.NewRecorder()

			handler.Frame(recorder, req)

			assertStatusCode(t, recorder, tc.wantStatus)
			if tc.wantStatus != http.StatusOK {
				assertJSONError(t, recorder, "unknown style: "+tc.style)
				return
			}
			if ct := recorder.Header().Get("Content-Type"); ct != "image/png" {
				t.Errorf("expected image/png, got %q", ct)
			}
			img, err := png.Decode(bytes.NewReader(recorder.Body.Bytes()))
			if err != nil {
				t.Fatalf("response is not a PNG: %v", err)
			}
			if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 160 {
				t.Errorf("unexpected frame size %v", img.Bounds())
			}
		})
	}
}
