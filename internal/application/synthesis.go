package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// Synthesizer turns text into an MP3 clip in a fixed language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type SpeechSynthesis struct {
	synth   Synthesizer
	tempDir string
	logger  *slog.Logger
}

func NewSpeechSynthesis(synth Synthesizer, tempDir string, logger *slog.Logger) *SpeechSynthesis {
	return &SpeechSynthesis{
		synth:   synth,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Speak synthesizes text, stages it in a temporary file and hands the path to
// player. The file is gone when Speak returns, whatever player did.
func (s *SpeechSynthesis) Speak(ctx context.Context, text string, player Player) (string, error) {
	audio, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("synthesizing: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("synthesizing: empty audio")
	}

	s.logger.Debug("synthesized reply", "bytes", len(audio))

	var clip string
	err = WithTempFile(s.tempDir, "reply-*.mp3", audio, func(path string) error {
		var playErr error
		clip, playErr = player.Play(ctx, path)
		if playErr != nil {
			return fmt.Errorf("registering playback: %w", playErr)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return clip, nil
}

// WithTempFile writes data to a new uniquely named file in dir, runs fn with
// its path and removes the file afterwards, also when fn fails or panics.
// An empty dir means os.TempDir.
func WithTempFile(dir, pattern string, data []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	defer func() {
		rmErr := os.Remove(path)
		if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = fmt.Errorf("removing temp file: %w", rmErr)
		}
	}()

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	return fn(path)
}
