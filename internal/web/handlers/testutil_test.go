package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

// testSessions creates a session manager on an in-memory store
func testSessions() (*session.Manager, *session.MemoryStore) {
	store := session.NewMemoryStore()
	return session.NewManager(store, "test-secret", 0), store
}

// stubDetector returns fixed landmarks or a fixed error
type stubDetector struct {
	landmarks *overlay.LandmarkSet
	err       error
	calls     int
}

func (d *stubDetector) Name() string { return "stub" }

func (d *stubDetector) Detect(context.Context, []byte) (*overlay.LandmarkSet, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return d.landmarks, nil
}

// stubProvider is an ai.Provider answering with a fixed analysis
type stubProvider struct {
	analysis *ai.ColourAnalysis
	err      error
	got      ai.RGB
}

func (p *stubProvider) Name() string { return "stub-model" }

func (p *stubProvider) AnalyzeColour(_ context.Context, c ai.RGB) (*ai.ColourAnalysis, error) {
	p.got = c
	return p.analysis, p.err
}

func (p *stubProvider) GetUsage() ai.Usage { return ai.Usage{InputTokens: 10, OutputTokens: 5} }

func (p *stubProvider) ResetUsage() {}

// stubProviders serves one stubProvider under every name
type stubProviders struct {
	mu       sync.Mutex
	provider ai.Provider
	err      error
	names    []string
}

func (s *stubProviders) Get(_ context.Context, name string) (ai.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	if s.err != nil {
		return nil, s.err
	}
	return s.provider, nil
}

func (s *stubProviders) Usage() map[string]ai.Usage {
	return map[string]ai.Usage{"openai": s.provider.GetUsage()}
}

// testFacePoints builds a plausible 68-point face centred at (200, 200):
// eyes level, cheekbones 160 wide, jaw 120 wide, face length 180.
func testFacePoints() []overlay.Point {
	points := make([]overlay.Point, overlay.NumIBUGPoints)
	for i := range points {
		points[i] = overlay.Point{X: 200, Y: 200}
	}
	points[1] = overlay.Point{X: 120, Y: 190}
	points[15] = overlay.Point{X: 280, Y: 190}
	points[4] = overlay.Point{X: 140, Y: 260}
	points[12] = overlay.Point{X: 260, Y: 260}
	points[8] = overlay.Point{X: 200, Y: 330}
	points[17] = overlay.Point{X: 130, Y: 140}
	points[26] = overlay.Point{X: 270, Y: 140}
	points[27] = overlay.Point{X: 200, Y: 150}

	left := []overlay.Point{{X: 150, Y: 170}, {X: 160, Y: 165}, {X: 170, Y: 165}, {X: 180, Y: 170}, {X: 170, Y: 175}, {X: 160, Y: 175}}
	right := []overlay.Point{{X: 220, Y: 170}, {X: 230, Y: 165}, {X: 240, Y: 165}, {X: 250, Y: 170}, {X: 240, Y: 175}, {X: 230, Y: 175}}
	copy(points[36:42], left)
	copy(points[42:48], right)
	return points
}

// testLandmarks returns the validated landmark set of testFacePoints
func testLandmarks(t *testing.T) *overlay.LandmarkSet {
	t.Helper()
	set, err := overlay.FromIBUG68(testFacePoints())
	if err != nil {
		t.Fatalf("failed to build landmarks: %v", err)
	}
	return set
}

// testPhotoDataURL returns a 400x400 PNG filled with fill as a data URL
func testPhotoDataURL(t *testing.T, fill color.Color) string {
	t.Helper()
	return testPhotoDataURLSize(t, 400, 400, fill)
}

// testPhotoDataURLSize returns a width x height PNG data URL
func testPhotoDataURLSize(t *testing.T, width, height int, fill color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)
	data, err := overlay.EncodePNG(img)
	if err != nil {
		t.Fatalf("failed to encode photo: %v", err)
	}
	return overlay.EncodeDataURL("image/png", data)
}

// jsonRequest creates a request with a JSON body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("failed to encode request body: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withCookies copies the cookies set on a previous response onto req
func withCookies(req *http.Request, recorder *httptest.ResponseRecorder) *http.Request {
	for _, c := range recorder.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
