//go:build portaudio
// +build portaudio

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type Device struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	SampleRate        float64
	DefaultInput      bool
	DefaultOutput     bool
}

func ListDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	result := make([]Device, 0, len(devices))
	for _, dev := range devices {
		hostAPI := ""
		if dev.HostApi != nil {
			hostAPI = dev.HostApi.Name
		}
		result = append(result, Device{
			Name:              dev.Name,
			HostAPI:           hostAPI,
			MaxInputChannels:  dev.MaxInputChannels,
			MaxOutputChannels: dev.MaxOutputChannels,
			SampleRate:        dev.DefaultSampleRate,
			DefaultInput:      defaultIn != nil && dev.Name == defaultIn.Name,
			DefaultOutput:     defaultOut != nil && dev.Name == defaultOut.Name,
		})
	}
	return result, nil
}
