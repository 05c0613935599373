package handlers

import (
	"errors"
	"net/http"

	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

// PhotoHandler keeps the last captured photo of a session.
type PhotoHandler struct {
	sessions *session.Manager
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(sessions *session.Manager) *PhotoHandler {
	return &PhotoHandler{sessions: sessions}
}

// ProcessPhotoRequest carries a captured photo as a data URL.
type ProcessPhotoRequest struct {
	Photo string `json:"photo" validate:"required"`
}

// ProcessPhotoResponse echoes the photo. SessionToken is the signed session
// reference for clients that send it as a Bearer token instead of the cookie.
type ProcessPhotoResponse struct {
	URL          string `json:"url"`
	SessionToken string `json:"session_token"`
}

// Process stores the photo in the session and echoes it back.
func (h *PhotoHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req ProcessPhotoRequest
	if err := decodeRequest(r, &req); err != nil {
		respondDecodeError(w, err)
		return
	}

	data, mimeType, err := overlay.DecodeDataURL(req.Photo)
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo must be a base64 data URL")
		return
	}
	_, format, err := overlay.Decode(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo is not a supported image")
		return
	}
	if mimeType == "" {
		mimeType = "image/" + format
	}

	sess, err := h.sessions.Load(w, r)
	if err != nil {
		logging.Error(logging.Fields{"error": err.Error()}, "failed to load session")
		respondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}

	sess.Photo = data
	sess.PhotoMIME = mimeType
	sess.Landmarks = nil
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		logging.Error(logging.Fields{"error": err.Error(), "session": sess.ID}, "failed to save session")
		respondError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	logging.Debug(logging.Fields{"session": sess.ID, "bytes": len(data), "mime": mimeType}, "photo stored")
	respondJSON(w, http.StatusOK, ProcessPhotoResponse{URL: req.Photo, SessionToken: h.sessions.Token(sess)})
}

// ColorAnalysis returns the session's last photo for the colour analysis page.
func (h *PhotoHandler) ColorAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.FromRequest(r)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		logging.Error(logging.Fields{"error": err.Error()}, "failed to load session")
		respondError(w, http.StatusInternalServerError, "session unavailable")
		return
	}
	if !sess.HasPhoto() {
		respondError(w, http.StatusNotFound, "No image available")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"imageSrc": overlay.EncodeDataURL(sess.PhotoMIME, sess.Photo),
	})
}

// Clear forgets the session and its photo.
func (h *PhotoHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.FromRequest(r)
	if err == nil {
		if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
			logging.Error(logging.Fields{"error": err.Error(), "session": sess.ID}, "failed to delete session")
			respondError(w, http.StatusInternalServerError, "failed to delete session")
			return
		}
	}
	h.sessions.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
