package stt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(ctx context.Context) (string, error) { return f.text, f.err }

// blockingRecognizer holds until released so tests can observe the recording state.
type blockingRecognizer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRecognizer) Recognize(ctx context.Context) (string, error) {
	b.started <- struct{}{}
	<-b.release
	return "spoken text", nil
}

type fakeGuard struct{ busy bool }

func (f fakeGuard) Busy() bool { return f.busy }

type fakeSubmitter struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSubmitter) Submit(ctx context.Context, text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return true
}

func (f *fakeSubmitter) submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func TestCapture_ForwardsResultToSubmitter(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewCaptureSession(fakeRecognizer{text: "سلام"}, fakeGuard{}, sub, nil)

	if !c.Start(context.Background()) {
		t.Fatalf("start rejected")
	}
	if got := sub.submitted(); len(got) != 1 || got[0] != "سلام" {
		t.Fatalf("submitted %v", got)
	}
	if c.State() != StateIdle {
		t.Fatalf("state %v after completion", c.State())
	}
}

func TestCapture_NoopWhenGuardBusy(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewCaptureSession(fakeRecognizer{text: "x"}, fakeGuard{busy: true}, sub, nil)
	if c.Start(context.Background()) {
		t.Fatalf("started while guard busy")
	}
	if len(sub.submitted()) != 0 {
		t.Fatalf("submitted despite busy guard")
	}
}

func TestCapture_NoopWhenUnsupported(t *testing.T) {
	c := NewCaptureSession(nil, fakeGuard{}, &fakeSubmitter{}, nil)
	if c.Supported() {
		t.Fatalf("nil recognizer reported as supported")
	}
	if c.Start(context.Background()) {
		t.Fatalf("started without a recognizer")
	}
}

func TestCapture_SingleAttemptAtATime(t *testing.T) {
	rec := &blockingRecognizer{started: make(chan struct{}), release: make(chan struct{})}
	sub := &fakeSubmitter{}
	c := NewCaptureSession(rec, fakeGuard{}, sub, nil)

	done := make(chan bool, 1)
	go func() { done <- c.Start(context.Background()) }()
	<-rec.started

	if c.State() != StateRecording {
		t.Fatalf("state %v during attempt", c.State())
	}
	if c.Start(context.Background()) {
		t.Fatalf("second attempt started while recording")
	}

	close(rec.release)
	if !<-done {
		t.Fatalf("first attempt failed")
	}
	if got := sub.submitted(); len(got) != 1 {
		t.Fatalf("expected one submission, got %v", got)
	}
}

func TestCapture_PermissionDeniedNoticeOnce(t *testing.T) {
	var notices []string
	wrapped := fmt.Errorf("%w: device refused", ErrPermissionDenied)
	c := NewCaptureSession(fakeRecognizer{err: wrapped}, fakeGuard{}, &fakeSubmitter{}, func(n string) {
		notices = append(notices, n)
	})

	if c.Start(context.Background()) {
		t.Fatalf("start succeeded despite denial")
	}
	if len(notices) != 1 {
		t.Fatalf("expected exactly one notice, got %d", len(notices))
	}
	if c.State() != StateIdle {
		t.Fatalf("state %v after denial", c.State())
	}
}

func TestCapture_OtherErrorsAreSilent(t *testing.T) {
	var notices []string
	c := NewCaptureSession(fakeRecognizer{err: errors.New("network hiccup")}, fakeGuard{}, &fakeSubmitter{}, func(n string) {
		notices = append(notices, n)
	})
	if c.Start(context.Background()) {
		t.Fatalf("start succeeded despite error")
	}
	if len(notices) != 0 {
		t.Fatalf("unexpected notices %v", notices)
	}
}
