//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"

	"voice-chat/internal/domain"
)

// MicrophoneSource stub when portaudio is not available
type MicrophoneSource struct {
	logger *slog.Logger
}

func NewMicrophoneSource(sampleRate int, phrase PhraseConfig, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{logger: logger}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Listen(_ context.Context) (domain.Recording, error) {
	return domain.Recording{}, fmt.Errorf("microphone source not available: rebuild with -tags portaudio")
}
