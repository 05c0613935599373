package handlers

import (
	"net/http"

	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/faceshape"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/makeup"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

// AnalyzeHandler classifies face shapes and recommends frames and makeup.
type AnalyzeHandler struct {
	sessions   *session.Manager
	faces      *faceResolver
	thresholds faceshape.Thresholds
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(sessions *session.Manager, detector detect.Detector, thresholds faceshape.Thresholds) *AnalyzeHandler {
	return &AnalyzeHandler{
		sessions:   sessions,
		faces:      &faceResolver{detector: detector},
		thresholds: thresholds,
	}
}

// AnalyzeResponse is the face analysis result.
type AnalyzeResponse struct {
	Shape           faceshape.Shape        `json:"shape"`
	Measurements    faceshape.Measurements `json:"measurements"`
	Recommendations []string               `json:"recommendations"`
	SkinTone        makeup.Tone            `json:"skin_tone,omitempty"`
	Makeup          *makeup.Recommendation `json:"makeup,omitempty"`
	LandmarkSource  string                 `json:"landmark_source"`
}

// Analyze classifies the face in the posted (or last stored) photo.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req faceRequest
	if err := decodeRequest(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	sess, err := h.sessions.Load(w, r)
	if err != nil {
		logging.Error(logging.Fields{"error": err.Error()}, "failed to load session")
		respondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	in, err := h.faces.resolve(r.Context(), req, sess)
	if err != nil {
		respondFaceError(w, err)
		return
	}

	shape, measurements, err := faceshape.ClassifyLandmarks(in.landmarks, h.thresholds)
	if err != nil {
		respondFaceError(w, err)
		return
	}

	recommendations, err := faceshape.Recommend(shape)
	if err != nil {
		recommendations = faceshape.DefaultRecommendations
	}

	resp := AnalyzeResponse{
		Shape:           shape,
		Measurements:    measurements,
		Recommendations: recommendations,
		LandmarkSource:  in.source,
	}

	if in.image != nil {
		tone, err := makeup.SampleSkinTone(in.image, in.landmarks)
		if err != nil {
			logging.Debug(logging.Fields{"error": err.Error()}, "skin tone not sampled")
		} else {
			rec := makeup.Recommend(shape, tone)
			resp.SkinTone = tone
			resp.Makeup = &rec
		}
	}

	in.remember(sess)
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logging.Warn(logging.Fields{"error": err.Error(), "session": sess.ID}, "failed to save session")
	}

	logging.Info(logging.Fields{"shape": shape, "source": in.source}, "face analysed")
	respondJSON(w, http.StatusOK, resp)
}
