package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	"voice-chat/internal/infra"
)

const DefaultModel = "gemini-2.0-flash"

// Client starts Gemini chat sessions. The underlying genai client is built
// on first use so a missing API key surfaces as a conversation error.
type Client struct {
	apiKey            string
	model             string
	baseURL           string
	systemInstruction string
	httpClient        *http.Client

	mu     sync.Mutex
	client *genai.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return NewClientWithURL(apiKey, model, "", timeout)
}

func NewClientWithURL(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: infra.NewHTTPClient(timeout),
	}
}

// WithSystemInstruction sets the instruction sent with every chat.
func (c *Client) WithSystemInstruction(text string) *Client {
	c.systemInstruction = text
	return c
}

func (c *Client) genaiClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}

	cfg := &genai.ClientConfig{
		APIKey:     c.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	c.client = client
	return client, nil
}

func (c *Client) StartConversation(ctx context.Context) (application.Conversation, error) {
	client, err := c.genaiClient(ctx)
	if err != nil {
		return nil, err
	}

	var cfg *genai.GenerateContentConfig
	if c.systemInstruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(c.systemInstruction, genai.RoleUser),
		}
	}

	chat, err := client.Chats.Create(ctx, c.model, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &Conversation{chat: chat}, nil
}

// Conversation is one Gemini chat. The chat keeps its own history and only
// appends to it when a message succeeds.
type Conversation struct {
	mu   sync.Mutex
	chat *genai.Chat
}

func (c *Conversation) Send(ctx context.Context, utterance string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: utterance})
	if err != nil {
		return "", fmt.Errorf("sending message to gemini: %w", err)
	}

	reply := resp.Text()
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return reply, nil
}

func (c *Conversation) History() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := c.chat.History(false)
	messages := make([]domain.Message, 0, len(history))
	for _, content := range history {
		if content == nil {
			continue
		}
		var text strings.Builder
		for _, part := range content.Parts {
			if part != nil {
				text.WriteString(part.Text)
			}
		}
		messages = append(messages, domain.Message{
			Role: domain.DisplayRole(content.Role),
			Text: text.String(),
		})
	}
	return messages
}
