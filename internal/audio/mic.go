package audio

import (
	"encoding/binary"
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

const (
	// CaptureSampleRate matches what the recognition gateway expects.
	CaptureSampleRate = 16000
	captureFrames     = 1600 // 100ms at 16kHz
)

// Microphone captures mono PCM16 frames from the default input device.
type Microphone struct {
	stream *portaudio.Stream
	buf    []int16
}

// NewMicrophone assumes portaudio is already initialized (see NewPlayer).
func NewMicrophone() *Microphone {
	return &Microphone{buf: make([]int16, captureFrames)}
}

// Start opens the default input stream. Failure here most commonly means the
// device is missing or access was refused by the OS.
func (m *Microphone) Start() error {
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(CaptureSampleRate), captureFrames, &m.buf)
	if err != nil {
		return fmt.Errorf("audio: open input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("audio: start input stream: %w", err)
	}
	m.stream = stream
	return nil
}

// ReadFrame blocks for the next ~100ms of audio, returned as PCM16LE bytes.
func (m *Microphone) ReadFrame() ([]byte, error) {
	if m.stream == nil {
		return nil, fmt.Errorf("audio: microphone not started")
	}
	if err := m.stream.Read(); err != nil {
		return nil, fmt.Errorf("audio: read input stream: %w", err)
	}
	out := make([]byte, len(m.buf)*2)
	for i, s := range m.buf {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out, nil
}

// Stop closes the input stream.
func (m *Microphone) Stop() error {
	if m.stream == nil {
		return nil
	}
	if err := m.stream.Stop(); err != nil {
		log.Printf("audio: stop input stream: %v", err)
	}
	err := m.stream.Close()
	m.stream = nil
	return err
}
