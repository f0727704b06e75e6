package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	"voice-chat/internal/infra"
)

type ClaudeClient struct {
	apiKey            string
	httpClient        *http.Client
	baseURL           string
	model             string
	maxTokens         int
	systemInstruction string
}

func NewClaudeClient(apiKey, model, systemInstruction string, timeout time.Duration) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, systemInstruction, "https://api.anthropic.com/v1", timeout)
}

func NewClaudeClientWithURL(apiKey, model, systemInstruction, baseURL string, timeout time.Duration) *ClaudeClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		apiKey:            apiKey,
		httpClient:        infra.NewHTTPClient(timeout),
		baseURL:           baseURL,
		model:             model,
		maxTokens:         1024,
		systemInstruction: systemInstruction,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type response struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *ClaudeClient) StartConversation(_ context.Context) (application.Conversation, error) {
	return &Conversation{client: c}, nil
}

func (c *ClaudeClient) complete(ctx context.Context, messages []message) (string, error) {
	bodyBytes, err := json.Marshal(request{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    c.systemInstruction,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := infra.CheckResponse("claude", resp); err != nil {
		return "", err
	}

	var result response
	if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	reply := text.String()
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("empty response from claude")
	}
	return reply, nil
}

// Conversation keeps the message list locally; the messages API is stateless.
type Conversation struct {
	client   *ClaudeClient
	mu       sync.Mutex
	messages []message
}

func (c *Conversation) Send(ctx context.Context, utterance string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user := message{Role: "user", Content: utterance}
	pending := append(append([]message(nil), c.messages...), user)

	reply, err := c.client.complete(ctx, pending)
	if err != nil {
		return "", err
	}

	c.messages = append(pending, message{Role: "assistant", Content: reply})
	return reply, nil
}

func (c *Conversation) History() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := make([]domain.Message, 0, len(c.messages))
	for _, m := range c.messages {
		history = append(history, domain.Message{Role: domain.DisplayRole(m.Role), Text: m.Content})
	}
	return history
}
