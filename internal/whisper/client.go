package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voice-scribe/backend/internal/audio"
)

// Client talks to a faster-whisper HTTP sidecar. The sidecar loads the
// model once at startup and runs single-threaded inference, so callers
// must not issue concurrent requests; the Adapter enforces that.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a faster-whisper sidecar client. The model is a
// deployment-time choice; it is sent with every request.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Name() string { return "faster-whisper" }

func (c *Client) Model() string { return c.model }

// Warmup checks that the sidecar is up and has its model loaded.
func (c *Client) Warmup(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whisper sidecar unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper sidecar unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// Transcribe uploads the normalized WAV and returns the parsed segments.
func (c *Client) Transcribe(ctx context.Context, na *audio.Normalized, language string) ([]Segment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(na.Path)
	if err != nil {
		return nil, fmt.Errorf("open normalized audio: %w", err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("audio", filepath.Base(na.Path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	writer.WriteField("model", c.model)
	if language != "" && language != "auto" {
		writer.WriteField("language", language)
	}
	writer.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisper sidecar request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper sidecar error (status %d): %s", resp.StatusCode, string(body))
	}

	var result sidecarResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}

	segments := make([]Segment, len(result.Segments))
	for i, seg := range result.Segments {
		segments[i] = Segment{
			Index: i,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}
	return segments, nil
}

// --- sidecar wire types ---

type sidecarResponse struct {
	Text     string           `json:"text"`
	Segments []sidecarSegment `json:"segments"`
	Language string           `json:"language"`
}

type sidecarSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
