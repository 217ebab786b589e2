package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
)

// Exchanger performs one chat exchange with the backend. An empty reply with a
// nil error means the backend answered but carried no usable response text.
type Exchanger interface {
	Exchange(ctx context.Context, message string) (string, error)
}

// Fixed bot-facing strings, kept verbatim from the original client.
const (
	typingIndicator = "در حال تایپ..."
	noResponseText  = "پاسخی دریافت نشد."
	serverErrorText = "خطا در ارتباط با سرور."
)

// Session drives one conversation: it owns the single-flight send guard and
// runs the append/exchange/reveal sequence for each submitted user text.
type Session struct {
	store *transcript.Store
	chat  Exchanger
	clock Clock

	mu   sync.Mutex
	busy bool
}

// New constructs a Session. A nil clock gets the real timer-backed one.
func New(store *transcript.Store, chat Exchanger, clock Clock) *Session {
	if clock == nil {
		clock = RealClock{}
	}
	return &Session{store: store, chat: chat, clock: clock}
}

// Busy reports whether an exchange is currently in flight. Voice capture uses
// this to refuse starting a recording that could race a pending send.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Submit runs one full exchange for text. It returns false without touching
// the transcript or the network when text trims to empty or another exchange
// is already in flight; dropped submissions are not queued and not an error.
//
// Submit blocks until the exchange and its reveal animation complete; run it
// on its own goroutine when the caller must stay responsive. The guard is
// cleared on every path, success or failure.
func (s *Session) Submit(ctx context.Context, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return false
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	s.store.Append(transcript.Final(transcript.SenderUser, text))
	s.store.Append(transcript.Pending(transcript.SenderBot, typingIndicator))

	reply, err := s.chat.Exchange(ctx, text)
	if err != nil {
		log.Printf("session: exchange failed: %v", err)
		s.store.RemoveLast()
		s.store.Append(transcript.Final(transcript.SenderBot, serverErrorText))
		return true
	}

	s.store.RemoveLast()
	s.reveal(ctx, reply)
	return true
}
