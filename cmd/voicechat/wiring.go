package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/infra/anthropic"
	"voice-chat/internal/infra/audio"
	"voice-chat/internal/infra/gemini"
	"voice-chat/internal/infra/googlespeech"
	"voice-chat/internal/infra/gtts"
	"voice-chat/internal/infra/openai"
)

func duration(logger *slog.Logger, name, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn("invalid duration, using default", "setting", name, "value", value, "default", fallback, "error", err)
		return fallback
	}
	return d
}

func createRecognizer(cfg *config.Config, logger *slog.Logger) application.Recognizer {
	timeout := duration(logger, "recognition.timeout", cfg.Recognition.Timeout, 30*time.Second)

	switch cfg.Recognition.Provider {
	case "whisper":
		return openai.NewWhisperClient(cfg.OpenAI.APIKey, cfg.Recognition.Language, timeout)
	case "none":
		return &application.NoopRecognizer{}
	default:
		return googlespeech.NewRecognizer(googlespeech.Options{
			CredentialsFile: cfg.Recognition.CredentialsFile,
			Language:        cfg.Recognition.Language,
			Timeout:         timeout,
		})
	}
}

func createStarter(cfg *config.Config, logger *slog.Logger) application.ConversationStarter {
	timeout := duration(logger, "conversation.timeout", cfg.Conversation.Timeout, 30*time.Second)
	instruction := cfg.Conversation.SystemInstruction

	switch cfg.Conversation.Provider {
	case "openai":
		return openai.NewChatClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, instruction, timeout)
	case "anthropic":
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, instruction, timeout)
	default:
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, timeout).WithSystemInstruction(instruction)
	}
}

func createSynthesizer(cfg *config.Config, logger *slog.Logger) application.Synthesizer {
	timeout := duration(logger, "synthesis.timeout", cfg.Synthesis.Timeout, 30*time.Second)

	switch cfg.Synthesis.Provider {
	case "google":
		return googlespeech.NewSynthesizer(googlespeech.Options{
			CredentialsFile: cfg.Synthesis.CredentialsFile,
			Language:        cfg.Synthesis.Language,
			Timeout:         timeout,
		})
	default:
		return gtts.NewClient(cfg.Synthesis.Language, timeout)
	}
}

// createLocalSource returns the source for turns captured on this machine.
func createLocalSource(cfg *config.Config, logger *slog.Logger) (application.AudioSource, error) {
	switch cfg.Capture.Mode {
	case "file":
		return audio.NewFileSource(cfg.Capture.FileDir), nil
	case "microphone", "upload":
		phrase := audio.PhraseConfig{
			EnergyThreshold: cfg.Capture.EnergyThreshold,
			Pause:           duration(logger, "capture.pause", cfg.Capture.Pause, 800*time.Millisecond),
			MaxPhrase:       duration(logger, "capture.max_phrase", cfg.Capture.MaxPhrase, 0),
		}
		return audio.NewMicrophoneSource(cfg.Capture.SampleRate, phrase, logger), nil
	default:
		return nil, fmt.Errorf("unknown capture mode %q", cfg.Capture.Mode)
	}
}

// newAssistant builds the turn pipeline. The returned func releases the
// providers that hold connections and must be called once the assistant is
// no longer used.
func newAssistant(cfg *config.Config, logger *slog.Logger) (*application.Assistant, func()) {
	recognizer := createRecognizer(cfg, logger)
	synthesizer := createSynthesizer(cfg, logger)

	capture := application.NewSpeechCapture(recognizer)
	synthesis := application.NewSpeechSynthesis(synthesizer, cfg.Synthesis.TempDir, logger)
	return application.NewAssistant(capture, synthesis, logger), func() {
		closeProviders(logger, recognizer, synthesizer)
	}
}

func closeProviders(logger *slog.Logger, providers ...any) {
	for _, p := range providers {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Warn("closing provider", "provider", fmt.Sprintf("%T", p), "error", err)
		}
	}
}
