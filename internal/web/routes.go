package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/looksmaxxer/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config, s.deps.Detector, s.deps.Catalog, s.deps.Archive)
	stylesHandler := handlers.NewStylesHandler(s.deps.Catalog)
	photoHandler := handlers.NewPhotoHandler(s.deps.Sessions)
	colourHandler := handlers.NewColourHandler(s.deps.Providers)
	analyzeHandler := handlers.NewAnalyzeHandler(s.deps.Sessions, s.deps.Detector, s.deps.Thresholds)
	tryOnHandler := handlers.NewTryOnHandler(s.deps.Sessions, s.deps.Detector, s.deps.Catalog, s.deps.Archive)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)
		r.Get("/usage", colourHandler.Usage)

		// Frames
		r.Get("/styles", stylesHandler.List)
		r.Get("/styles/{style}", stylesHandler.Frame)

		// Session photo
		r.Post("/process-photo", photoHandler.Process)
		r.Get("/color-analysis", photoHandler.ColorAnalysis)
		r.Delete("/session", photoHandler.Clear)

		// Analysis and try-on
		r.Post("/process-colour", colourHandler.Process)
		r.Post("/analyze", analyzeHandler.Analyze)
		r.Post("/try-on", tryOnHandler.TryOn)
	})
}
