package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
)

func testAnalysis() *ai.ColourAnalysis {
	return &ai.ColourAnalysis{
		Undertone: "warm",
		Season:    "autumn",
		Palette:   []string{"olive", "rust"},
		Avoid:     []string{"icy pink"},
		Summary:   "Earthy tones suit you.",
	}
}

func TestColourHandler_Process(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantHex      string
		wantProvider string
	}{
		{"array with alpha", `{"colour":[200,150,120,255]}`, "#c89678", "openai"},
		{"hex string", `{"colour":"#C89678","provider":"gemini"}`, "#c89678", "gemini"},
		{"object", `{"colour":{"r":10,"g":20,"b":30},"provider":"ollama"}`, "#0a141e", "ollama"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{analysis: testAnalysis()}
			providers := &stubProviders{provider: provider}
			handler := NewColourHandler(providers)
			recorder := httptest.NewRecorder()

			handler.Process(recorder, jsonRequest(t, http.MethodPost, "/api/v1/process-colour", tc.body))

			assertStatusCode(t, recorder, http.StatusOK)
			var result ProcessColourResponse
			parseJSONResponse(t, recorder, &result)

			if result.Message != "Colour received" {
				t.Errorf("unexpected message %q", result.Message)
			}
			if result.Colour != tc.wantHex || provider.got.Hex() != tc.wantHex {
				t.Errorf("expected colour %s, got response %s and provider input %s", tc.wantHex, result.Colour, provider.got.Hex())
			}
			if result.Provider != tc.wantProvider || providers.names[0] != tc.wantProvider {
				t.Errorf("expected provider %s, got %s", tc.wantProvider, result.Provider)
			}
			if result.Model != "stub-model" {
				t.Errorf("expected model stub-model, got %s", result.Model)
			}
			if result.Analysis == nil || result.Analysis.Season != "autumn" {
				t.Errorf("unexpected analysis %+v", result.Analysis)
			}
		})
	}
}

func TestColourHandler_MissingColour(t *testing.T) {
	bodies := []string{`{}`, `{"colour":null}`, `{"colour":""}`, `{"colour":0}`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			providers := &stubProviders{provider: &stubProvider{analysis: testAnalysis()}}
			handler := NewColourHandler(providers)
			recorder := httptest.NewRecorder()

			handler.Process(recorder, jsonRequest(t, http.MethodPost, "/api/v1/process-colour", body))

			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertJSONError(t, recorder, "No colour data received")
			if len(providers.names) != 0 {
				t.Error("provider must not be called without a colour")
			}
		})
	}
}

func TestColourHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		providers  *stubProviders
		wantStatus int
		wantError  string
	}{
		{
			name:       "out of range",
			body:       `{"colour":[300,0,0]}`,
			providers:  &stubProviders{provider: &stubProvider{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid colour: component 300 out of range 0-255",
		},
		{
			name:       "unknown provider",
			body:       `{"colour":[1,2,3],"provider":"llamacpp"}`,
			providers:  &stubProviders{provider: &stubProvider{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "provider must be one of [openai gemini ollama]",
		},
		{
			name:       "provider unavailable",
			body:       `{"colour":[1,2,3]}`,
			providers:  &stubProviders{err: fmt.Errorf("%w: OPENAI_TOKEN environment variable is required", ai.ErrProviderUnavailable)},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "AI provider not available: OPENAI_TOKEN environment variable is required",
		},
		{
			name:       "provider failure",
			body:       `{"colour":[1,2,3]}`,
			providers:  &stubProviders{provider: &stubProvider{err: errors.New("upstream 500")}},
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to process colour",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewColourHandler(tc.providers)
			recorder := httptest.NewRecorder()

			handler.Process(recorder, jsonRequest(t, http.MethodPost, "/api/v1/process-colour", tc.body))

			assertStatusCode(t, recorder, tc.wantStatus)
			assertJSONError(t, recorder, tc.wantError)
		})
	}
}

func TestColourHandler_Usage(t *testing.T) {
	handler := NewColourHandler(&stubProviders{provider: &stubProvider{}})
	recorder := httptest.NewRecorder()

	handler.Usage(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	var result map[string]ai.Usage
	parseJSONResponse(t, recorder, &result)
	if result["openai"].InputTokens != 10 {
		t.Errorf("unexpected usage %+v", result)
	}
}
