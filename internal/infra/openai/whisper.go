package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

// WhisperClient recognizes speech with the OpenAI transcription endpoint.
type WhisperClient struct {
	client   *goopenai.Client
	language string
}

func NewWhisperClient(apiKey, language string, timeout time.Duration) *WhisperClient {
	return NewWhisperClientWithURL(apiKey, language, defaultBaseURL, timeout)
}

func NewWhisperClientWithURL(apiKey, language, baseURL string, timeout time.Duration) *WhisperClient {
	return &WhisperClient{
		client:   newClient(apiKey, baseURL, timeout),
		language: whisperLanguage(language),
	}
}

func (c *WhisperClient) Recognize(ctx context.Context, rec domain.Recording) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    goopenai.Whisper1,
		Reader:   bytes.NewReader(rec.Data),
		FilePath: "audio." + string(rec.Format),
		Language: c.language,
	})
	if err != nil {
		return "", fmt.Errorf("%w: whisper transcription: %w", application.ErrServiceUnreachable, err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// whisperLanguage reduces a BCP-47 tag such as en-US to the ISO-639-1 code
// the transcription endpoint expects.
func whisperLanguage(tag string) string {
	lang, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(lang)
}
