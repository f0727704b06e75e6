//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
)

// SpeakerPlayer stub when portaudio is not available
type SpeakerPlayer struct {
	logger *slog.Logger
}

func NewSpeakerPlayer(logger *slog.Logger) *SpeakerPlayer {
	return &SpeakerPlayer{logger: logger}
}

func (s *SpeakerPlayer) Play(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("speaker not available: rebuild with -tags portaudio")
}
