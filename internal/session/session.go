// Package session keeps the last captured photo and landmarks per browser
// session. Sessions are identified by a signed cookie.
package session

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one visitor's state.
type Session struct {
	ID        string               `json:"id"`
	Photo     []byte               `json:"photo,omitempty"`      // raw image bytes of the last capture
	PhotoMIME string               `json:"photo_mime,omitempty"` // e.g. image/jpeg
	Landmarks *overlay.LandmarkSet `json:"landmarks,omitempty"`
	Style     string               `json:"style,omitempty"` // last tried frame style
	CreatedAt time.Time            `json:"created_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// HasPhoto reports whether a photo was captured in this session.
func (s *Session) HasPhoto() bool {
	return s != nil && len(s.Photo) > 0
}

// Clone returns a deep copy: the photo bytes and landmarks are not shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Photo != nil {
		c.Photo = bytes.Clone(s.Photo)
	}
	if s.Landmarks != nil {
		c.Landmarks = &overlay.LandmarkSet{
			LeftEye:  slices.Clone(s.Landmarks.LeftEye),
			RightEye: slices.Clone(s.Landmarks.RightEye),
			Points:   slices.Clone(s.Landmarks.Points),
		}
	}
	return &c
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
