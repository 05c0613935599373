package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/looksmaxxer/internal/catalog"
	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
	"github.com/kozaktomas/looksmaxxer/internal/session"
	"github.com/kozaktomas/looksmaxxer/internal/snapshot"
)

// TryOnHandler composites glasses frames onto photos.
type TryOnHandler struct {
	sessions *session.Manager
	faces    *faceResolver
	catalog  *catalog.Catalog
	archive  snapshot.Archive
}

// NewTryOnHandler creates a new try-on handler
func NewTryOnHandler(sessions *session.Manager, detector detect.Detector, frames *catalog.Catalog, archive snapshot.Archive) *TryOnHandler {
	return &TryOnHandler{
		sessions: sessions,
		faces:    &faceResolver{detector: detector},
		catalog:  frames,
		archive:  archive,
	}
}

// TryOnRequest asks for one frame style on a photo.
type TryOnRequest struct {
	faceRequest
	Style string `json:"style" validate:"required"`
}

// TryOnResponse carries the composited image. Photos larger than
// constants.MaxImageSize are downscaled before rendering; Placement is in the
// pixel space of the returned image and Scale maps source pixels onto it.
type TryOnResponse struct {
	Image          string            `json:"image"` // JPEG data URL
	Style          string            `json:"style"`
	Placement      overlay.Placement `json:"placement"`
	Scale          float64           `json:"scale"`
	LandmarkSource string            `json:"landmark_source"`
	SnapshotURL    string            `json:"snapshot_url,omitempty"`
}

// TryOn renders the requested frame onto the posted (or last stored) photo.
func (h *TryOnHandler) TryOn(w http.ResponseWriter, r *http.Request) {
	var req TryOnRequest
	if err := decodeRequest(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	frame, err := h.catalog.Get(req.Style)
	if errors.Is(err, catalog.ErrUnknownStyle) {
		respondError(w, http.StatusBadRequest, "unknown style: "+sanitizeForLog(req.Style))
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load frame")
		return
	}

	sess, err := h.sessions.Load(w, r)
	if err != nil {
		logging.Error(logging.Fields{"error": err.Error()}, "failed to load session")
		respondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	in, err := h.faces.resolve(r.Context(), req.faceRequest, sess)
	if err != nil {
		respondFaceError(w, err)
		return
	}
	if in.image == nil {
		respondFaceError(w, errNoPhoto)
		return
	}

	source, scale := overlay.Fit(in.image, constants.MaxImageSize)
	out, placement, err := overlay.Composite(source, frame, in.landmarks.Scale(scale))
	if err != nil {
		respondFaceError(w, err)
		return
	}

	encoded, err := overlay.EncodeJPEG(out)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode image")
		return
	}

	resp := TryOnResponse{
		Image:          overlay.EncodeDataURL("image/jpeg", encoded),
		Style:          catalog.Normalize(req.Style),
		Placement:      placement,
		Scale:          scale,
		LandmarkSource: in.source,
	}

	if h.archive.Enabled() {
		url, err := h.archive.Store(r.Context(), sess.ID, encoded)
		if err != nil {
			logging.Warn(logging.Fields{"error": err.Error(), "session": sess.ID}, "failed to archive snapshot")
		} else {
			resp.SnapshotURL = url
		}
	}

	in.remember(sess)
	sess.Style = resp.Style
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logging.Warn(logging.Fields{"error": err.Error(), "session": sess.ID}, "failed to save session")
	}

	logging.Info(logging.Fields{
		"style":  resp.Style,
		"source": in.source,
		"angle":  placement.Angle,
	}, "try-on rendered")
	respondJSON(w, http.StatusOK, resp)
}
