package snapshot

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/looksmaxxer/internal/config"
)

func TestKey(t *testing.T) {
	tests := []struct {
		session string
		want    string
	}{
		{"abc", "snapshots/abc/img.jpg"},
		{"", "snapshots/anonymous/img.jpg"},
	}
	for _, tt := range tests {
		if got := Key(tt.session, "img"); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.session, got, tt.want)
		}
	}
}

func TestNew_NoBucket(t *testing.T) {
	archive, err := New(&config.S3Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archive.Enabled() {
		t.Error("expected disabled archive without bucket")
	}
	url, err := archive.Store(context.Background(), "s", []byte{1})
	if err != nil || url != "" {
		t.Errorf("NopArchive.Store = %q, %v", url, err)
	}

	if _, err := NewS3Archive(&config.S3Config{}); !errors.Is(err, ErrNoBucket) {
		t.Errorf("expected ErrNoBucket, got %v", err)
	}
}

func TestS3Archive_Store(t *testing.T) {
	var mu sync.Mutex
	var gotPath string
	var gotBody []byte
	var gotType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotBody = body
		gotType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	archive, err := NewS3Archive(&config.S3Config{
		Bucket:          "tryon",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		PresignTTL:      time.Minute,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Archive: %v", err)
	}

	url, err := archive.Store(context.Background(), "sess-1", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(gotPath, "/tryon/snapshots/sess-1/") || !strings.HasSuffix(gotPath, ".jpg") {
		t.Errorf("unexpected upload path %q", gotPath)
	}
	if string(gotBody) != "jpeg-bytes" {
		t.Errorf("unexpected upload body %q", gotBody)
	}
	if gotType != "image/jpeg" {
		t.Errorf("expected image/jpeg content type, got %q", gotType)
	}
	if !strings.HasPrefix(url, server.URL+gotPath) || !strings.Contains(url, "X-Amz-Signature=") {
		t.Errorf("expected presigned URL for %s, got %q", gotPath, url)
	}
}
