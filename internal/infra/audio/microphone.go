//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"voice-chat/internal/domain"
)

const framesPerBuffer = 1024

// MicrophoneSource records one phrase from the default input device per
// Listen call. The device is opened and released inside each call.
type MicrophoneSource struct {
	sampleRate int
	phrase     PhraseConfig
	logger     *slog.Logger
}

func NewMicrophoneSource(sampleRate int, phrase PhraseConfig, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		sampleRate: sampleRate,
		phrase:     phrase,
		logger:     logger,
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Listen(ctx context.Context) (domain.Recording, error) {
	if err := portaudio.Initialize(); err != nil {
		return domain.Recording{}, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buffer := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), len(buffer), buffer)
	if err != nil {
		return domain.Recording{}, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return domain.Recording{}, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	m.logger.Debug("microphone open", "sampleRate", m.sampleRate)

	detector := newPhraseDetector(m.phrase, m.sampleRate)
	for {
		select {
		case <-ctx.Done():
			return domain.Recording{}, ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return domain.Recording{}, fmt.Errorf("reading from stream: %w", err)
		}

		if detector.Feed(buffer) {
			break
		}
	}

	samples := detector.Phrase()
	m.logger.Debug("phrase captured", "samples", len(samples))

	return domain.Recording{
		Data:       samplesToWav(samples, m.sampleRate),
		Format:     domain.FormatWAV,
		SampleRate: m.sampleRate,
	}, nil
}
