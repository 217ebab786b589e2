package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Clip is decoded PCM16 audio ready for playback.
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Duration in seconds, for logging.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate*c.Channels)
}

// FromPCM16LE wraps raw little-endian PCM16 bytes into a clip.
func FromPCM16LE(raw []byte, sampleRate, channels int) *Clip {
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return &Clip{SampleRate: sampleRate, Channels: channels, Samples: samples}
}

// DecodeWAV parses a PCM16 RIFF/WAVE payload. Anything else is rejected.
func DecodeWAV(data []byte) (*Clip, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("audio: not a RIFF/WAVE payload")
	}

	var sampleRate, channels int
	var pcm []byte
	sawFmt := false

	// Walk the chunk list; fmt must precede data.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("audio: short fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body:])
			channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			bits := binary.LittleEndian.Uint16(data[body+14:])
			if format != 1 || bits != 16 {
				return nil, fmt.Errorf("audio: unsupported wav format=%d bits=%d", format, bits)
			}
			sawFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		// chunks are word aligned
		off = body + size + size%2
	}

	if !sawFmt || pcm == nil {
		return nil, fmt.Errorf("audio: wav missing fmt or data chunk")
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("audio: wav has invalid channels=%d rate=%d", channels, sampleRate)
	}
	return FromPCM16LE(pcm, sampleRate, channels), nil
}

// EncodeWAV renders a clip back into a PCM16 RIFF/WAVE payload.
func EncodeWAV(c *Clip) []byte {
	var buf bytes.Buffer
	dataLen := len(c.Samples) * 2
	byteRate := c.SampleRate * c.Channels * 2

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(c.Channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(c.SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(c.Channels*2)) // block align
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	_ = binary.Write(&buf, binary.LittleEndian, c.Samples)
	return buf.Bytes()
}
