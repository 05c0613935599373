package handlers

import (
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/makeup"
)

func TestAnalyzeHandler_WithRequestLandmarks(t *testing.T) {
	sessions, _ := testSessions()
	detector := &stubDetector{}
	handler := NewAnalyzeHandler(sessions, detector, faceshape.DefaultThresholds())

	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]any{
		"photo":     testPhotoDataURL(t, color.RGBA{R: 210, G: 160, B: 120, A: 255}),
		"landmarks": testFacePoints(),
	}))

	assertStatusCode(t, recorder, http.StatusOK)
	var result AnalyzeResponse
	parseJSONResponse(t, recorder, &result)

	if result.Shape != faceshape.Oblong {
		t.Errorf("expected oblong, got %s (measurements %+v)", result.Shape, result.Measurements)
	}
	if len(result.Recommendations) == 0 || result.Recommendations[0] != "geometric" {
		t.Errorf("unexpected recommendations %v", result.Recommendations)
	}
	if result.SkinTone != makeup.Warm || result.Makeup == nil {
		t.Errorf("expected warm makeup recommendation, got %q %+v", result.SkinTone, result.Makeup)
	}
	if result.LandmarkSource != "request" {
		t.Errorf("expected landmarks from request, got %q", result.LandmarkSource)
	}
	if detector.calls != 0 {
		t.Error("detector must not run when landmarks are supplied")
	}
}

func TestAnalyzeHandler_LandmarksOnly(t *testing.T) {
	sessions, _ := testSessions()
	handler := NewAnalyzeHandler(sessions, &stubDetector{}, faceshape.DefaultThresholds())

	recorder := httptest.NewRecorder()
	handler.Analyze(recorder, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]any{
		"landmarks": testFacePoints(),
	}))

	assertStatusCode(t, recorder, http.StatusOK)
	var result AnalyzeResponse
	parseJSONResponse(t, recorder, &result)
	if result.SkinTone != "" || result.Makeup != nil {
		t.Error("expected no makeup without a photo")
	}
}

func TestAnalyzeHandler_UsesDetectorThenSession(t *testing.T) {
	sessions, _ := testSessions()
	detector := &stubDetector{landmarks: testLandmarks(t)}
	handler := NewAnalyzeHandler(sessions, detector, faceshape.DefaultThresholds())

	first := httptest.NewRecorder()
	handler.Analyze(first, jsonRequest(t, http.MethodPost, "/api/v1/analyze", map[string]any{
		"photo": testPhotoDataURL(t, color.RGBA{R: 120, G: 140, B: 200, A: 255}),
	}))

	assertStatusCode(t, first, http.StatusOK)
	var result AnalyzeResponse
	parseJSONResponse(t, first, &result)
	if result.LandmarkSource != "detector:stub" {
		t.Errorf("expected detector landmarks, got %q", result.LandmarkSource)
	}
	if result.SkinTone != makeup.Cool {
		t.Errorf("expected cool tone, got %q", result.SkinTone)
	}

	second := httptest.NewRecorder()
	handler.Analyze(second, withCookies(jsonRequest(t, http.MethodPost, "/api/v1/analyze", `{}`), first))

	assertStatusCode(t, second, http.StatusOK)
	parseJSONResponse(t, second, &result)
	if result.LandmarkSource != "session" {
		t.Errorf("expected session landmarks on repeat, got %q", result.LandmarkSource)
	}
	if detector.calls != 1 {
		t.Errorf("expected detector to run once, ran %d times", detector.calls)
	}
}

func TestAnalyzeHandler_Errors(t *testing.T) {
	photo := testPhotoDataURL(t, color.White)

	tests := []struct {
		name       string
		detector   *stubDetector
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{
			name:       "nothing to analyse",
			detector:   &stubDetector{},
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantError:  "photo required",
		},
		{
			name:       "no face",
			detector:   &stubDetector{err: detect.ErrNotFound},
			body:       map[string]any{"photo": photo},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "no face found, please retake the photo",
		},
		{
			name:       "no detector",
			detector:   &stubDetector{err: detect.ErrDetectorUnavailable},
			body:       map[string]any{"photo": photo},
			wantStatus: http.StatusBadRequest,
			wantError:  "landmarks required: no face detector configured",
		},
		{
			name:       "detector failure",
			detector:   &stubDetector{err: errors.New("connection refused")},
			body:       map[string]any{"photo": photo},
			wantStatus: http.StatusBadGateway,
			wantError:  "landmark detection failed",
		},
		{
			name:       "five point layout cannot be measured",
			detector:   &stubDetector{},
			body:       map[string]any{"landmarks": [][2]float64{{100, 50}, {80, 50}, {20, 50}, {40, 50}, {60, 80}}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "invalid landmarks: shape analysis needs 68 points, got 5",
		},
		{
			name:       "bad landmarks",
			detector:   &stubDetector{},
			body:       map[string]any{"landmarks": [][2]float64{{1, 2}}},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "invalid landmarks: unsupported layout with 1 points",
		},
		{
			name:       "bad photo",
			detector:   &stubDetector{},
			body:       map[string]any{"photo": "data:image/png;base64,aGVsbG8="},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessions, _ := testSessions()
			handler := NewAnalyzeHandler(sessions, tc.detector, faceshape.DefaultThresholds())
			recorder := httptest.NewRecorder()

			handler.Analyze(recorder, jsonRequest(t, http.MethodPost, "/api/v1/analyze", tc.body))

			assertStatusCode(t, recorder, tc.wantStatus)
			if tc.wantError != "" {
				assertJSONError(t, recorder, tc.wantError)
			}
		})
	}
}
