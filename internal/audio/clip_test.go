package audio

import (
	"testing"
)

func TestDecodeWAV_RoundTrip(t *testing.T) {
	clip := &Clip{SampleRate: 16000, Channels: 1, Samples: []int16{0, 100, -100, 32767, -32768}}
	decoded, err := DecodeWAV(EncodeWAV(clip))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SampleRate != clip.SampleRate || decoded.Channels != clip.Channels {
		t.Fatalf("format mismatch: %+v", decoded)
	}
	if len(decoded.Samples) != len(clip.Samples) {
		t.Fatalf("sample count %d want %d", len(decoded.Samples), len(clip.Samples))
	}
	for i := range clip.Samples {
		if decoded.Samples[i] != clip.Samples[i] {
			t.Fatalf("sample %d = %d want %d", i, decoded.Samples[i], clip.Samples[i])
		}
	}
}

func TestDecodeWAV_RejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("short"),
		[]byte("RIFFxxxxWAVE"), // headers only, no chunks
		[]byte("not audio at all, just some text that is long enough"),
	}
	for i, data := range cases {
		if _, err := DecodeWAV(data); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestClipDuration(t *testing.T) {
	clip := &Clip{SampleRate: 16000, Channels: 1, Samples: make([]int16, 16000)}
	if d := clip.Duration(); d != 1.0 {
		t.Fatalf("duration %v want 1.0", d)
	}
}
