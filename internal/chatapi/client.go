package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the chat backend's /chat route.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// NewClient constructs a chat client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Exchange POSTs one user message and returns the bot reply. Transport errors,
// non-2xx statuses and bodies that are not JSON objects all return an error.
// A well-formed body with a missing or empty response field returns ("", nil):
// the backend answered, it just had nothing to say.
func (c *Client) Exchange(ctx context.Context, message string) (string, error) {
	reqBody, _ := json.Marshal(chatRequest{Message: message})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat error: status=%d body=%s", resp.StatusCode, string(b))
	}
	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("chat decode: %w", err)
	}
	return strings.TrimSpace(cr.Response), nil
}
