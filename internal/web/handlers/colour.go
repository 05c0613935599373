package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
)

// ProviderSource returns the AI provider called name.
type ProviderSource interface {
	Get(ctx context.Context, name string) (ai.Provider, error)
	Usage() map[string]ai.Usage
}

// ColourHandler forwards skin colours to an AI provider.
type ColourHandler struct {
	providers ProviderSource
}

// NewColourHandler creates a new colour handler
func NewColourHandler(providers ProviderSource) *ColourHandler {
	return &ColourHandler{providers: providers}
}

// ProcessColourRequest carries the colour picked in the client.
type ProcessColourRequest struct {
	Colour   json.RawMessage `json:"colour"`
	Provider string          `json:"provider" validate:"omitempty,oneof=openai gemini ollama"`
}

// ProcessColourResponse is the analysis for one colour.
type ProcessColourResponse struct {
	Message  string             `json:"message"`
	Colour   string             `json:"colour"`
	Provider string             `json:"provider"`
	Model    string             `json:"model"`
	Analysis *ai.ColourAnalysis `json:"analysis"`
}

// missingColour reports the values a client sends when nothing was picked.
func missingColour(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", `""`, "0", "false", "[]", "{}":
		return true
	}
	return false
}

// Process analyses the posted colour.
func (h *ColourHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessColourRequest
	if err := decodeRequest(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}
	if missingColour(req.Colour) {
		respondError(w, http.StatusBadRequest, "No colour data received")
		return
	}

	var colour ai.RGB
	if err := json.Unmarshal(req.Colour, &colour); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := req.Provider
	if name == "" {
		name = constants.DefaultProvider
	}
	provider, err := h.providers.Get(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	analysis, err := provider.AnalyzeColour(r.Context(), colour)
	if err != nil {
		logging.Error(logging.Fields{
			"provider": name,
			"colour":   colour.Hex(),
			"error":    sanitizeForLog(err.Error()),
		}, "colour analysis failed")
		respondError(w, http.StatusBadGateway, "Failed to process colour")
		return
	}

	respondJSON(w, http.StatusOK, ProcessColourResponse{
		Message:  "Colour received",
		Colour:   colour.Hex(),
		Provider: name,
		Model:    provider.Name(),
		Analysis: analysis,
	})
}

// Usage reports token usage and cost per provider.
func (h *ColourHandler) Usage(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.providers.Usage())
}
