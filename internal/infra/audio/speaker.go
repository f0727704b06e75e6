//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gordonklaus/portaudio"
)

// SpeakerPlayer plays MP3 clips on the default output device.
type SpeakerPlayer struct {
	logger *slog.Logger
}

func NewSpeakerPlayer(logger *slog.Logger) *SpeakerPlayer {
	return &SpeakerPlayer{logger: logger}
}

func (s *SpeakerPlayer) Play(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading clip: %w", err)
	}

	samples, sampleRate, err := decodeMP3(data)
	if err != nil {
		return "", err
	}

	if err := portaudio.Initialize(); err != nil {
		return "", fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buffer := make([]int16, framesPerBuffer*2)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), framesPerBuffer, buffer)
	if err != nil {
		return "", fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return "", fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	for offset := 0; offset < len(samples); offset += len(buffer) {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n := copy(buffer, samples[offset:])
		clear(buffer[n:])

		if err := stream.Write(); err != nil {
			return "", fmt.Errorf("writing to stream: %w", err)
		}
	}

	s.logger.Debug("clip played", "path", path, "sampleRate", sampleRate)
	return path, nil
}
