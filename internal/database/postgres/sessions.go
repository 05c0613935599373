package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
	"github.com/kozaktomas/looksmaxxer/internal/session"
)

// SessionRepository provides PostgreSQL-backed session storage
type SessionRepository struct {
	pool *Pool
}

var _ session.Store = (*SessionRepository)(nil)

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(pool *Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save stores a session in the database
func (r *SessionRepository) Save(ctx context.Context, s *session.Session) error {
	var landmarks []byte
	if s.Landmarks != nil {
		var err error
		landmarks, err = json.Marshal(s.Landmarks)
		if err != nil {
			return fmt.Errorf("marshal landmarks: %w", err)
		}
	}

	query := `
		INSERT INTO sessions (id, photo, photo_mime, landmarks, style, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			photo = EXCLUDED.photo,
			photo_mime = EXCLUDED.photo_mime,
			landmarks = EXCLUDED.landmarks,
			style = EXCLUDED.style,
			expires_at = EXCLUDED.expires_at
	`

	_, err := r.pool.Exec(ctx, query, s.ID, s.Photo, s.PhotoMIME, nullJSON(landmarks), s.Style, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID, session.ErrNotFound if missing or expired
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	query := `
		SELECT id, photo, photo_mime, landmarks, style, created_at, expires_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`

	var s session.Session
	var landmarks []byte
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&s.ID,
		&s.Photo,
		&s.PhotoMIME,
		&landmarks,
		&s.Style,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if len(landmarks) > 0 {
		s.Landmarks = &overlay.LandmarkSet{}
		if err := json.Unmarshal(landmarks, s.Landmarks); err != nil {
			return nil, fmt.Errorf("unmarshal landmarks: %w", err)
		}
	}

	return &s, nil
}

// Delete removes a session from the database
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count deleted
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= NOW()")
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return count, nil
}

// nullJSON maps an empty document to SQL NULL.
func nullJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
