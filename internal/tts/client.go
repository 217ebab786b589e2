package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/audio"
)

// Synthesizer turns text into one playable clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (*audio.Clip, error)
}

// BackendSynthesizer calls the chat backend's /speak route, which answers with
// a WAV payload on success and a JSON error body on any other status.
type BackendSynthesizer struct {
	HTTPClient *http.Client
	BaseURL    string
}

type speakRequest struct {
	Text string `json:"text"`
}

// NewBackendSynthesizer constructs a synthesizer for baseURL. Synthesis can be
// slow server-side (model inference), hence the generous timeout.
func NewBackendSynthesizer(baseURL string) *BackendSynthesizer {
	return &BackendSynthesizer{
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *BackendSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Clip, error) {
	reqBody, _ := json.Marshal(speakRequest{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/speak", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speak error: status=%d body=%s", resp.StatusCode, string(b))
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speak read body: %w", err)
	}
	clip, err := audio.DecodeWAV(payload)
	if err != nil {
		return nil, fmt.Errorf("speak decode: %w", err)
	}
	return clip, nil
}
