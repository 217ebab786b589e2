package audio

import (
	"context"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

const playbackFrames = 1024

// Player plays clips through the default output device. Initialize/Terminate
// bracket the whole process lifetime, not each playback.
type Player struct{}

// NewPlayer initializes portaudio. Call Close when the process is done with
// audio entirely.
func NewPlayer() (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: initialize: %w", err)
	}
	return &Player{}, nil
}

func (p *Player) Close() {
	if err := portaudio.Terminate(); err != nil {
		log.Printf("audio: terminate: %v", err)
	}
}

// Play blocks until the clip finishes, ctx is cancelled, or the device fails.
// The output stream is closed on every exit path.
func (p *Player) Play(ctx context.Context, clip *Clip) error {
	if clip == nil || len(clip.Samples) == 0 {
		return nil
	}
	buf := make([]int16, playbackFrames*clip.Channels)
	stream, err := portaudio.OpenDefaultStream(0, clip.Channels, float64(clip.SampleRate), playbackFrames, &buf)
	if err != nil {
		return fmt.Errorf("audio: open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("audio: start output stream: %w", err)
	}
	defer func() {
		if err := stream.Stop(); err != nil {
			log.Printf("audio: stop output stream: %v", err)
		}
	}()

	samples := clip.Samples
	for len(samples) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n := copy(buf, samples)
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		samples = samples[n:]
		if err := stream.Write(); err != nil {
			return fmt.Errorf("audio: write output stream: %w", err)
		}
	}
	return nil
}
