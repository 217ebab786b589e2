package session

import (
	"context"
	"strings"
	"time"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/transcript"
)

// Clock abstracts the reveal pacing so tests can run without real delays.
type Clock interface {
	// Sleep waits for d or until ctx is cancelled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration)
}

// RealClock sleeps on a timer.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

const (
	revealBaseDelay   = 100 * time.Millisecond
	revealPerCharCost = 15 * time.Millisecond
	revealMaxDelay    = 300 * time.Millisecond
)

// revealDelay paces a token by its length: short words flash by, long words
// linger, capped so the animation never stalls.
func revealDelay(tokenLen int) time.Duration {
	d := revealBaseDelay + time.Duration(tokenLen)*revealPerCharCost
	if d > revealMaxDelay {
		d = revealMaxDelay
	}
	return d
}

// reveal replays full word by word as a growing run of prefixes. Each prefix
// is appended as a pending message and removed before the next, longer one;
// only the complete text lands as a final entry and reaches storage. An empty
// reply short-circuits to the fixed no-response message.
func (s *Session) reveal(ctx context.Context, full string) {
	words := strings.Fields(full)
	if len(words) == 0 {
		s.store.Append(transcript.Final(transcript.SenderBot, noResponseText))
		return
	}

	var prefix strings.Builder
	for i, word := range words {
		if i > 0 {
			prefix.WriteString(" ")
		}
		prefix.WriteString(word)

		last := i == len(words)-1
		if last {
			s.store.Append(transcript.Final(transcript.SenderBot, prefix.String()))
		} else {
			s.store.Append(transcript.Pending(transcript.SenderBot, prefix.String()))
		}
		s.clock.Sleep(ctx, revealDelay(len(word)))
		if !last {
			s.store.RemoveLast()
		}
	}
}
