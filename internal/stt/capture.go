package stt

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrPermissionDenied marks capture failures caused by microphone access
// being refused, either by the OS or by the recognition gateway.
var ErrPermissionDenied = errors.New("stt: microphone permission denied")

// micPermissionNotice is shown once per denial, verbatim from the original client.
const micPermissionNotice = "لطفاً مجوز دسترسی به میکروفون را فعال کنید."

// Recognizer converts one spoken utterance into its best text candidate.
type Recognizer interface {
	Recognize(ctx context.Context) (string, error)
}

// SendGuard exposes whether a chat exchange is in flight. Capture refuses to
// start while one is, so a voice result can never race a pending send.
type SendGuard interface {
	Busy() bool
}

// Submitter receives the recognized text exactly as if the user had typed it.
type Submitter interface {
	Submit(ctx context.Context, text string) bool
}

// State of a capture session.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// CaptureSession wraps one speech-to-text attempt at a time. A nil recognizer
// means the capability is absent for the whole session; that is checked once
// at construction, never per attempt.
type CaptureSession struct {
	rec      Recognizer
	guard    SendGuard
	submit   Submitter
	onNotice func(notice string)

	mu    sync.Mutex
	state State
}

func NewCaptureSession(rec Recognizer, guard SendGuard, submit Submitter, onNotice func(string)) *CaptureSession {
	return &CaptureSession{rec: rec, guard: guard, submit: submit, onNotice: onNotice, state: StateIdle}
}

// Supported reports whether voice capture is available at all.
func (c *CaptureSession) Supported() bool { return c.rec != nil }

// State returns the current capture state.
func (c *CaptureSession) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start runs one capture attempt and forwards the result into the submitter.
// It is a no-op returning false when capture is unsupported, the send guard
// is busy, or an attempt is already recording. Start blocks for the duration
// of the attempt; callers wanting a responsive UI run it on a goroutine.
func (c *CaptureSession) Start(ctx context.Context) bool {
	if !c.Supported() || c.guard.Busy() {
		return false
	}
	c.mu.Lock()
	if c.state == StateRecording {
		c.mu.Unlock()
		return false
	}
	c.state = StateRecording
	c.mu.Unlock()

	text, err := c.rec.Recognize(ctx)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			if c.onNotice != nil {
				c.onNotice(micPermissionNotice)
			}
		} else {
			log.Printf("capture: recognition failed: %v", err)
		}
		return false
	}
	return c.submit.Submit(ctx, text)
}
