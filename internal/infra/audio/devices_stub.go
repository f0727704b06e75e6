//go:build !portaudio
// +build !portaudio

package audio

import "fmt"

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
	return nil, fmt.Errorf("device listing not available: rebuild with -tags portaudio")
}
