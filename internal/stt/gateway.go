package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

// AudioSource provides PCM16LE frames from the capture device.
type AudioSource interface {
	Start() error
	ReadFrame() ([]byte, error)
	Stop() error
}

// GatewayRecognizer streams microphone audio to a websocket recognition
// gateway and waits for the single finalized utterance. The gateway is
// configured for one fixed locale and non-continuous recognition; interim
// results are logged but never consumed.
type GatewayRecognizer struct {
	Endpoint   string
	Locale     string
	SampleRate int
	Source     AudioSource
}

// gateway message envelope
type gatewayMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript,omitempty"`
	Final      bool   `json:"final,omitempty"`
	Error      string `json:"error,omitempty"`
}

func NewGatewayRecognizer(endpoint, locale string, sampleRate int, source AudioSource) *GatewayRecognizer {
	if locale == "" {
		locale = "fa-IR"
	}
	return &GatewayRecognizer{Endpoint: endpoint, Locale: locale, SampleRate: sampleRate, Source: source}
}

// Recognize performs one capture attempt: connect, stream frames, return the
// first finalized transcript. Microphone open failure and a gateway
// "not-allowed" error both surface as ErrPermissionDenied.
func (g *GatewayRecognizer) Recognize(ctx context.Context) (string, error) {
	u, err := url.Parse(g.Endpoint)
	if err != nil {
		return "", fmt.Errorf("capture: bad gateway endpoint: %w", err)
	}
	q := u.Query()
	q.Set("sample_rate", strconv.Itoa(g.SampleRate))
	q.Set("locale", g.Locale)
	q.Set("continuous", "false")
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("capture: dial gateway: %w", err)
	}
	defer conn.Close()

	if err := g.Source.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}

	// Pump frames until the attempt resolves. Write errors just end the pump;
	// the read loop reports the authoritative outcome.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			default:
			}
			frame, err := g.Source.ReadFrame()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}
	}()

	// The source may not be stopped while the pump is still reading from it:
	// end the pump (closing the connection unblocks a pending write), wait for
	// it to exit, then release the device.
	defer func() {
		close(stop)
		_ = conn.Close()
		<-done
		if err := g.Source.Stop(); err != nil {
			log.Printf("capture: stop source: %v", err)
		}
	}()

	// Unblock the read loop on cancellation.
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("capture: gateway read: %w", err)
		}
		var msg gatewayMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("capture: skipping undecodable gateway message: %v", err)
			continue
		}
		switch msg.Type {
		case "transcript":
			if !msg.Final {
				log.Printf("capture: interim transcript: %s", msg.Transcript)
				continue
			}
			return strings.TrimSpace(msg.Transcript), nil
		case "error":
			if msg.Error == "not-allowed" {
				return "", fmt.Errorf("%w: gateway refused", ErrPermissionDenied)
			}
			return "", fmt.Errorf("capture: gateway error: %s", msg.Error)
		default:
			// session bookkeeping messages are ignored
		}
	}
}
