package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
)

type fakeExchanger struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	block   chan struct{} // when non-nil, Exchange waits until closed
	started chan struct{} // signalled when Exchange begins
}

func (f *fakeExchanger) Exchange(ctx context.Context, message string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

func (f *fakeExchanger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fastClock skips all delays.
type fastClock struct{}

func (fastClock) Sleep(context.Context, time.Duration) {}

func botTexts(msgs []transcript.Message) []string {
	var out []string
	for _, m := range msgs {
		if m.Sender == transcript.SenderBot {
			out = append(out, m.Text)
		}
	}
	return out
}

func TestSubmit_RevealsWordByWord(t *testing.T) {
	var mu sync.Mutex
	var botSeen []string
	store := transcript.NewStore("t", nil, func(msgs []transcript.Message) {
		mu.Lock()
		defer mu.Unlock()
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			if last.Sender == transcript.SenderBot && last.Text != typingIndicator {
				if len(botSeen) == 0 || botSeen[len(botSeen)-1] != last.Text {
					botSeen = append(botSeen, last.Text)
				}
			}
		}
	})
	sess := New(store, &fakeExchanger{reply: "alpha beta gamma"}, fastClock{})

	if !sess.Submit(context.Background(), "hello") {
		t.Fatalf("submit rejected")
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"alpha", "alpha beta", "alpha beta gamma"}
	if len(botSeen) < len(want) {
		t.Fatalf("saw %v, want prefixes %v", botSeen, want)
	}
	for i, w := range want {
		if botSeen[i] != w {
			t.Fatalf("prefix %d = %q, want %q (all: %v)", i, botSeen[i], w, botSeen)
		}
	}
	final := store.Messages()
	if got := final[len(final)-1].Text; got != "alpha beta gamma" {
		t.Fatalf("final entry %q", got)
	}
	if final[len(final)-1].Kind != transcript.KindFinal {
		t.Fatalf("final entry not durable")
	}
}

func TestSubmit_EmptyTextIsNoop(t *testing.T) {
	ex := &fakeExchanger{reply: "x"}
	store := transcript.NewStore("t", nil, nil)
	sess := New(store, ex, fastClock{})
	if sess.Submit(context.Background(), "   \t ") {
		t.Fatalf("expected rejection of blank text")
	}
	if store.Len() != 0 || ex.callCount() != 0 {
		t.Fatalf("blank submit mutated state: len=%d calls=%d", store.Len(), ex.callCount())
	}
}

func TestSubmit_DroppedWhileBusy(t *testing.T) {
	ex := &fakeExchanger{reply: "one word", block: make(chan struct{}), started: make(chan struct{}, 1)}
	store := transcript.NewStore("t", nil, nil)
	sess := New(store, ex, fastClock{})

	done := make(chan bool, 1)
	go func() { done <- sess.Submit(context.Background(), "first") }()
	<-ex.started

	if sess.Submit(context.Background(), "second") {
		t.Fatalf("second submit accepted while busy")
	}
	if ex.callCount() != 1 {
		t.Fatalf("second submit reached the network: %d calls", ex.callCount())
	}

	close(ex.block)
	if !<-done {
		t.Fatalf("first submit failed")
	}

	for _, m := range store.Messages() {
		if m.Sender == transcript.SenderUser && m.Text == "second" {
			t.Fatalf("dropped submission reached the transcript")
		}
	}
	if sess.Busy() {
		t.Fatalf("guard not released")
	}
}

func TestSubmit_ExchangeErrorAppendsFallbackAndReleasesGuard(t *testing.T) {
	store := transcript.NewStore("t", nil, nil)
	sess := New(store, &fakeExchanger{err: errors.New("boom")}, fastClock{})

	if !sess.Submit(context.Background(), "hi") {
		t.Fatalf("submit rejected")
	}
	bots := botTexts(store.Messages())
	if len(bots) != 1 || bots[0] != serverErrorText {
		t.Fatalf("expected single fallback message, got %v", bots)
	}
	if sess.Busy() {
		t.Fatalf("guard not released after failure")
	}
}

func TestSubmit_EmptyReplyAppendsNoResponse(t *testing.T) {
	store := transcript.NewStore("t", nil, nil)
	sess := New(store, &fakeExchanger{reply: "  "}, fastClock{})

	if !sess.Submit(context.Background(), "hi") {
		t.Fatalf("submit rejected")
	}
	bots := botTexts(store.Messages())
	if len(bots) != 1 || bots[0] != noResponseText {
		t.Fatalf("expected no-response message, got %v", bots)
	}
}

func TestSubmit_NoPlaceholderLeftBehind(t *testing.T) {
	store := transcript.NewStore("t", nil, nil)
	sess := New(store, &fakeExchanger{reply: "ok"}, fastClock{})
	_ = sess.Submit(context.Background(), "hi")
	for _, m := range store.Messages() {
		if m.Kind == transcript.KindPending {
			t.Fatalf("pending message survived the exchange: %+v", m)
		}
	}
}

func TestRevealDelay_Bounds(t *testing.T) {
	if d := revealDelay(1); d != 115*time.Millisecond {
		t.Fatalf("short token delay %v", d)
	}
	if d := revealDelay(100); d != revealMaxDelay {
		t.Fatalf("long token delay %v not capped", d)
	}
}
