package handlers

import (
	"net/http"

	"github.com/kozaktomas/looksmaxxer/internal/ai"
	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/config"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/snapshot"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config   *config.Config
	detector detect.Detector
	catalog  *catalog.Catalog
	archive  snapshot.Archive
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config, detector detect.Detector, frames *catalog.Catalog, archive snapshot.Archive) *ConfigHandler {
	return &ConfigHandler{
		config:   cfg,
		detector: detector,
		catalog:  frames,
		archive:  archive,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	Providers       []ProviderInfo `json:"providers"`
	DefaultProvider string         `json:"default_provider"`
	Detector        string         `json:"detector"`
	Styles          []string       `json:"styles"`
	Snapshots       bool           `json:"snapshots"`
}

// ProviderInfo represents information about an AI provider
type ProviderInfo struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// Get returns the available configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	available := ai.Available(h.config)
	providers := make([]ProviderInfo, 0, len(ai.Providers))
	for _, name := range ai.Providers {
		providers = append(providers, ProviderInfo{Name: name, Available: available[name]})
	}

	response := ConfigResponse{
		Providers:       providers,
		DefaultProvider: constants.DefaultProvider,
		Detector:        h.detector.Name(),
		Styles:          h.catalog.Tags(),
		Snapshots:       h.archive.Enabled(),
	}

	respondJSON(w, http.StatusOK, response)
}
