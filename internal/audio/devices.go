package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// DeviceInfo is a printable summary of a host audio device.
type DeviceInfo struct {
	Index      int
	Name       string
	MaxInputs  int
	MaxOutputs int
	SampleRate float64
}

// Devices lists the host's audio devices. Assumes portaudio is initialized.
func Devices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: list devices: %w", err)
	}
	out := make([]DeviceInfo, 0, len(devices))
	for i, d := range devices {
		out = append(out, DeviceInfo{
			Index:      i,
			Name:       d.Name,
			MaxInputs:  d.MaxInputChannels,
			MaxOutputs: d.MaxOutputChannels,
			SampleRate: d.DefaultSampleRate,
		})
	}
	return out, nil
}
