package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/looksmaxxer/internal/constants"
	"github.com/kozaktomas/looksmaxxer/internal/logging"
)

const devSecret = "looksmaxxer-dev-secret-change-in-production"

// Manager handles session creation, cookies and expiry on top of a Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a session manager. An empty secret falls back to a
// development secret, a non-positive ttl to constants.DefaultSessionTTL.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	if secret == "" {
		logging.Warn(nil, "WEB_SESSION_SECRET not set, using development secret")
		secret = devSecret
	}
	if ttl <= 0 {
		ttl = constants.DefaultSessionTTL
	}
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetSecureCookies marks cookies Secure, for deployments behind HTTPS.
func (m *Manager) SetSecureCookies(secure bool) {
	m.secure = secure
}

// Create starts a new empty session and stores it.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s, nil
}

// Save extends the session expiry and stores it.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.ExpiresAt = m.now().Add(m.ttl)
	return m.store.Save(ctx, s)
}

// Delete removes the session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// FromRequest returns the session named by the request cookie or, failing
// that, by an Authorization: Bearer header carrying the same signed token.
// ErrNotFound when neither resolves to a live session.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if id, ok := m.verifyToken(cookie.Value); ok {
			s, err := m.store.Get(r.Context(), id)
			if err == nil {
				return s, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if id, ok := m.verifyToken(strings.TrimSpace(token)); ok {
			return m.store.Get(r.Context(), id)
		}
	}

	return nil, ErrNotFound
}

// Load returns the request's session, creating one (and setting the cookie)
// when there is none.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	s, err := m.FromRequest(r)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s, err = m.Create(r.Context())
	if err != nil {
		return nil, err
	}
	m.SetCookie(w, s)
	return s, nil
}

// SetCookie sets the signed session cookie on the response.
func (m *Manager) SetCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    m.Token(s),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
}

// ClearCookie removes the session cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// StartCleanup removes expired sessions every interval until ctx is done.
// The returned channel is closed once the goroutine has exited.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				count, err := m.store.DeleteExpired(ctx)
				if err != nil {
					logging.Error(logging.Fields{"error": err.Error()}, "failed to delete expired sessions")
					continue
				}
				if count > 0 {
					logging.Debug(logging.Fields{"count": count}, "deleted expired sessions")
				}
			}
		}
	}()
	return done
}

// Token is the signed session reference "<id>.<signature>" used as cookie
// value and as bearer token for clients that cannot keep cookies.
func (m *Manager) Token(s *Session) string {
	return s.ID + "." + m.sign(s.ID)
}

func (m *Manager) verifyToken(value string) (string, bool) {
	id, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}
	return id, hmac.Equal([]byte(signature), []byte(m.sign(id)))
}

// sign creates an HMAC signature for data
func (m *Manager) sign(data string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
