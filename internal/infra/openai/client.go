package openai

import (
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"voice-chat/internal/infra"
)

const defaultBaseURL = "https://api.openai.com/v1"

func newClient(apiKey, baseURL string, timeout time.Duration) *goopenai.Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = infra.NewHTTPClient(timeout)
	return goopenai.NewClientWithConfig(cfg)
}
