package tts

import (
	"context"
	"fmt"
	"sync"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	clientinterfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/speak"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/audio"
)

// DeepgramSynthesizer is an alternate provider for installations that want
// voice replies without the backend's own /speak route. It collects the speak
// websocket's linear16 stream into a single clip.
type DeepgramSynthesizer struct {
	apiKey     string
	model      string
	sampleRate int
}

func NewDeepgramSynthesizer(apiKey, model string) *DeepgramSynthesizer {
	if model == "" {
		model = "aura-2-thalia-en"
	}
	return &DeepgramSynthesizer{apiKey: apiKey, model: model, sampleRate: 48000}
}

func (d *DeepgramSynthesizer) Synthesize(ctx context.Context, text string) (*audio.Clip, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("deepgram: API key missing")
	}
	if text == "" {
		return nil, fmt.Errorf("deepgram: empty text")
	}

	options := &clientinterfaces.WSSpeakOptions{
		Model:      d.model,
		Encoding:   "linear16",
		SampleRate: d.sampleRate,
	}

	var mu sync.Mutex
	var pcm []byte
	var lastRecv time.Time

	cb := &speakCallback{onBinary: func(data []byte) error {
		mu.Lock()
		pcm = append(pcm, data...)
		lastRecv = time.Now()
		mu.Unlock()
		return nil
	}}

	dg, err := speak.NewWSUsingCallback(ctx, d.apiKey, &clientinterfaces.ClientOptions{}, options, cb)
	if err != nil {
		return nil, fmt.Errorf("deepgram: create ws client: %w", err)
	}
	defer dg.Stop()

	if ok := dg.Connect(); !ok {
		return nil, fmt.Errorf("deepgram: connect failed")
	}
	if err := dg.SpeakWithText(text); err != nil {
		return nil, fmt.Errorf("deepgram: speak text: %w", err)
	}
	if err := dg.Flush(); err != nil {
		return nil, fmt.Errorf("deepgram: flush: %w", err)
	}

	// The stream has no explicit end-of-clip marker; treat a quiet gap after
	// the first audio as completion, bounded by an overall deadline.
	const idleWindow = 400 * time.Millisecond
	deadline := time.Now().Add(12 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			mu.Lock()
			gotAudio := len(pcm) > 0
			quiet := gotAudio && time.Since(lastRecv) > idleWindow
			expired := time.Now().After(deadline)
			var collected []byte
			if quiet || expired {
				collected = append([]byte(nil), pcm...)
			}
			mu.Unlock()

			if quiet || (expired && len(collected) > 0) {
				return audio.FromPCM16LE(collected, d.sampleRate, 1), nil
			}
			if expired {
				return nil, fmt.Errorf("deepgram: no audio before deadline")
			}
		}
	}
}

type speakCallback struct{ onBinary func([]byte) error }

func (s *speakCallback) Open(*msginterfaces.OpenResponse) error         { return nil }
func (s *speakCallback) Metadata(*msginterfaces.MetadataResponse) error { return nil }
func (s *speakCallback) Flush(*msginterfaces.FlushedResponse) error     { return nil }
func (s *speakCallback) Clear(*msginterfaces.ClearedResponse) error     { return nil }
func (s *speakCallback) Close(*msginterfaces.CloseResponse) error       { return nil }
func (s *speakCallback) Warning(*msginterfaces.WarningResponse) error   { return nil }
func (s *speakCallback) Error(*msginterfaces.ErrorResponse) error       { return nil }
func (s *speakCallback) UnhandledEvent([]byte) error                    { return nil }
func (s *speakCallback) Binary(byMsg []byte) error {
	if s.onBinary != nil {
		return s.onBinary(byMsg)
	}
	return nil
}
