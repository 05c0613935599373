package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// StylesHandler serves the frame catalog.
type StylesHandler struct {
	catalog *catalog.Catalog
}

// NewStylesHandler creates a new styles handler
func NewStylesHandler(frames *catalog.Catalog) *StylesHandler {
	return &StylesHandler{catalog: frames}
}

// StylesResponse lists the frame styles and which face shapes they suit.
type StylesResponse struct {
	Styles          []string            `json:"styles"`
	Recommendations map[string][]string `json:"recommendations"`
}

// List returns every available style.
func (h *StylesHandler) List(w http.ResponseWriter, r *http.Request) {
	recommendations := make(map[string][]string, len(faceshape.Shapes))
	for _, shape := range faceshape.Shapes {
		recommendations[string(shape)] = faceshape.RecommendOrDefault(shape)
	}

	respondJSON(w, http.StatusOK, StylesResponse{
		Styles:          h.catalog.Tags(),
		Recommendations: recommendations,
	})
}

// Frame returns the frame image for one style as PNG.
func (h *StylesHandler) Frame(w http.ResponseWriter, r *http.Request) {
	style := chi.URLParam(r, "style")

	frame, err := h.catalog.Get(style)
	if errors.Is(err, catalog.ErrUnknownStyle) {
		respondError(w, http.StatusNotFound, "unknown style: "+sanitizeForLog(style))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load frame")
		return
	}

	data, err := overlay.EncodePNG(frame)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode frame")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
