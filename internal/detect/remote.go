package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

const defaultLandmarkURL = "http://localhost:8000"

// RemoteDetector calls an HTTP landmark service.
type RemoteDetector struct {
	baseURL string
	client  *http.Client
}

// NewRemoteDetector creates a client for the service at baseURL.
func NewRemoteDetector(baseURL string) *RemoteDetector {
	if baseURL == "" {
		baseURL = defaultLandmarkURL
	}
	return &RemoteDetector{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Name returns the detector name.
func (d *RemoteDetector) Name() string {
	return "remote"
}

// FaceLandmarks is one face returned by the landmark service.
type FaceLandmarks struct {
	Landmarks [][2]float64 `json:"landmarks"`
	DetScore  float64      `json:"det_score"`
}

// LandmarkResponse is the landmark service response.
type LandmarkResponse struct {
	FacesCount int             `json:"faces_count"`
	Faces      []FaceLandmarks `json:"faces"`
}

// Detect posts the image and returns the landmarks of the highest scoring face.
func (d *RemoteDetector) Detect(ctx context.Context, imageData []byte) (*overlay.LandmarkSet, error) {
	body, err := d.postImage(ctx, "/landmarks", imageData)
	if err != nil {
		return nil, err
	}

	var resp LandmarkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Faces) == 0 {
		return nil, ErrNotFound
	}

	best := resp.Faces[0]
	for _, f := range resp.Faces[1:] {
		if f.DetScore > best.DetScore {
			best = f
		}
	}
	return FromPoints(overlay.FromPairs(best.Landmarks))
}

func (d *RemoteDetector) postImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image.jpg"`)
	h.Set("Content-Type", http.DetectContentType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
