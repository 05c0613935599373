package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"

	"github.com/kozaktomas/looksmaxxer/internal/detect"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
	"github.com/kozaktomas/looksmaxxer/internal/overlay"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

var (
	errNoPhoto    = errors.New("photo required")
	errBadPhoto   = errors.New("invalid photo")
	errNoDetector = errors.New("landmarks required: no face detector configured")
)

// faceRequest is the part shared by requests that work on a face. Both
// fields are optional: a missing photo falls back to the session's last
// capture, missing landmarks to the stored ones or to the detector.
type faceRequest struct {
	Photo     string          `json:"photo"`
	Landmarks json.RawMessage `json:"landmarks"`
}

// faceInput is a resolved photo with its landmarks.
type faceInput struct {
	photo     []byte
	photoMIME string
	image     image.Image // nil when no photo is available
	landmarks *overlay.LandmarkSet
	source    string // where the landmarks came from
	fresh     bool   // photo or landmarks came with the request
}

// faceResolver turns a faceRequest into a faceInput.
type faceResolver struct {
	detector detect.Detector
}

func (f *faceResolver) resolve(ctx context.Context, req faceRequest, sess *session.Session) (*faceInput, error) {
	in := &faceInput{}

	switch {
	case req.Photo != "":
		data, mimeType, err := overlay.DecodeDataURL(req.Photo)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadPhoto, err)
		}
		in.photo, in.photoMIME, in.fresh = data, mimeType, true
	case sess.HasPhoto():
		in.photo, in.photoMIME = sess.Photo, sess.PhotoMIME
	}

	if len(in.photo) > 0 {
		img, format, err := overlay.Decode(in.photo)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadPhoto, err)
		}
		in.image = img
		if in.photoMIME == "" {
			in.photoMIME = "image/" + format
		}
	}

	switch {
	case len(req.Landmarks) > 0 && string(req.Landmarks) != "null":
		landmarks, err := detect.ParseLandmarks(req.Landmarks)
		if err != nil {
			return nil, err
		}
		in.landmarks, in.source, in.fresh = landmarks, "request", true
	case !in.fresh && sess != nil && sess.Landmarks != nil:
		in.landmarks, in.source = sess.Landmarks, "session"
	case in.image != nil:
		landmarks, err := f.detector.Detect(ctx, in.photo)
		if errors.Is(err, detect.ErrDetectorUnavailable) {
			return nil, errNoDetector
		}
		if err != nil {
			return nil, err
		}
		in.landmarks, in.source = landmarks, "detector:"+f.detector.Name()
	default:
		return nil, errNoPhoto
	}

	return in, nil
}

// remember copies a request-supplied photo and landmarks into the session.
func (in *faceInput) remember(sess *session.Session) {
	if !in.fresh {
		return
	}
	if len(in.photo) > 0 {
		sess.Photo = in.photo
		sess.PhotoMIME = in.photoMIME
	}
	sess.Landmarks = in.landmarks
}

// respondFaceError maps resolution and compositing errors to responses.
// Problems the user can fix by retaking the photo are 422.
func respondFaceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNoPhoto), errors.Is(err, errNoDetector):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errBadPhoto), errors.Is(err, overlay.ErrInvalidImage):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, detect.ErrNotFound):
		respondError(w, http.StatusUnprocessableEntity, "no face found, please retake the photo")
	case errors.Is(err, overlay.ErrInvalidLandmarks), errors.Is(err, overlay.ErrInvalidPlacement):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logging.Error(logging.Fields{"error": sanitizeForLog(err.Error())}, "face processing failed")
		respondError(w, http.StatusBadGateway, "landmark detection failed")
	}
}
