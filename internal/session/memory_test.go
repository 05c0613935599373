package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	s := &Session{ID: "abc", Photo: []byte{1, 2, 3}, Style: "round", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.Style = "changed after save"

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Style != "round" {
		t.Errorf("store kept a reference to the caller's session, style %q", got.Style)
	}
	if !got.HasPhoto() {
		t.Error("expected photo to be stored")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.Save(ctx, &Session{ID: "live", ExpiresAt: now.Add(time.Minute)})
	_ = store.Save(ctx, &Session{ID: "dead", ExpiresAt: now.Add(-time.Minute)})
	_ = store.Save(ctx, &Session{ID: "edge", ExpiresAt: now})

	if _, err := store.Get(ctx, "dead"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired session, got %v", err)
	}
	if _, err := store.Get(ctx, "edge"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected session expiring now to be expired, got %v", err)
	}

	count, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if count != 2 || store.Len() != 1 {
		t.Errorf("expected 2 deleted and 1 left, got %d deleted and %d left", count, store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, &Session{ID: "abc", ExpiresAt: time.Now().Add(time.Hour)})

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("deleting a missing session should succeed, got %v", err)
	}
}

func TestMemoryStore_DoesNotShareData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	s := &Session{
		ID:        "abc",
		Photo:     []byte{1, 2, 3},
		Landmarks: &overlay.LandmarkSet{LeftEye: overlay.Contour{{X: 1, Y: 1}}, Points: []overlay.Point{{X: 5, Y: 5}}},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// mutate the caller's copy after saving
	s.Photo[0] = 9
	s.Landmarks.LeftEye[0].X = 99
	s.Landmarks.Points[0].Y = 99

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Photo[0] != 1 {
		t.Errorf("photo shared with caller, got %v", got.Photo)
	}
	if got.Landmarks.LeftEye[0].X != 1 || got.Landmarks.Points[0].Y != 5 {
		t.Errorf("landmarks shared with caller, got %+v", got.Landmarks)
	}

	// mutate a returned copy
	got.Photo[1] = 9
	got.Landmarks.LeftEye[0].Y = 42

	again, _ := store.Get(ctx, "abc")
	if again.Photo[1] != 2 || again.Landmarks.LeftEye[0].Y != 1 {
		t.Errorf("store data changed through a returned session: %v %+v", again.Photo, again.Landmarks)
	}
}

func TestSession_CloneNil(t *testing.T) {
	var s *Session
	if s.Clone() != nil {
		t.Error("expected nil clone of nil session")
	}
	empty := (&Session{ID: "x"}).Clone()
	if empty.Photo != nil || empty.Landmarks != nil {
		t.Errorf("expected nil fields to stay nil, got %+v", empty)
	}
}
