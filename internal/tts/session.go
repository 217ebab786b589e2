package tts

import (
	"context"
	"log"
	"strings"

	"github.com/amirrezaabbasiai-svg/AI-chatbot/internal/audio"
)

// PlaybackState drives the play-audio affordance icons.
type PlaybackState string

const (
	StateIdle    PlaybackState = "idle"
	StateLoading PlaybackState = "loading"
	StatePlaying PlaybackState = "playing"
)

// Player delivers a clip to the speakers, blocking until done.
type Player interface {
	Play(ctx context.Context, clip *audio.Clip) error
}

// StateListener observes affordance state changes. All visible play buttons
// share one state; overlapping playbacks race on it, which is accepted.
type StateListener func(state PlaybackState)

// Session wraps one text-to-speech playback at a time behind a small state
// machine. It holds no relation to the send guard: synthesis may run while a
// chat exchange or a reveal animation is in flight.
type Session struct {
	synth   Synthesizer
	player  Player
	onState StateListener
}

func NewSession(synth Synthesizer, player Player, onState StateListener) *Session {
	return &Session{synth: synth, player: player, onState: onState}
}

// Play synthesizes and plays text. Every failure is terminal here: logged,
// affordances restored, nothing surfaced to the transcript. The idle
// notification fires on every exit path.
func (s *Session) Play(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.setState(StateLoading)
	defer s.setState(StateIdle)

	clip, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		log.Printf("tts: synthesis failed: %v", err)
		return
	}

	s.setState(StatePlaying)
	log.Printf("tts: playing %.1fs clip", clip.Duration())
	if err := s.player.Play(ctx, clip); err != nil {
		log.Printf("tts: playback failed: %v", err)
	}
}

func (s *Session) setState(state PlaybackState) {
	if s.onState != nil {
		s.onState(state)
	}
}
