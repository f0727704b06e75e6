package openai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

const DefaultChatModel = goopenai.GPT4oMini

// ChatClient starts conversations backed by chat completions. History is
// kept locally and resent with every request.
type ChatClient struct {
	client            *goopenai.Client
	model             string
	systemInstruction string
}

func NewChatClient(apiKey, model, systemInstruction string, timeout time.Duration) *ChatClient {
	return NewChatClientWithURL(apiKey, model, systemInstruction, defaultBaseURL, timeout)
}

func NewChatClientWithURL(apiKey, model, systemInstruction, baseURL string, timeout time.Duration) *ChatClient {
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatClient{
		client:            newClient(apiKey, baseURL, timeout),
		model:             model,
		systemInstruction: systemInstruction,
	}
}

func (c *ChatClient) StartConversation(_ context.Context) (application.Conversation, error) {
	return &ChatConversation{client: c}, nil
}

type ChatConversation struct {
	client   *ChatClient
	mu       sync.Mutex
	messages []goopenai.ChatCompletionMessage
}

func (c *ChatConversation) Send(ctx context.Context, utterance string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user := goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: utterance}

	messages := make([]goopenai.ChatCompletionMessage, 0, len(c.messages)+2)
	if c.client.systemInstruction != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: c.client.systemInstruction,
		})
	}
	messages = append(messages, c.messages...)
	messages = append(messages, user)

	resp, err := c.client.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.client.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	reply := resp.Choices[0].Message.Content
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("empty response from openai")
	}

	c.messages = append(c.messages, user, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleAssistant,
		Content: reply,
	})
	return reply, nil
}

func (c *ChatConversation) History() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := make([]domain.Message, 0, len(c.messages))
	for _, m := range c.messages {
		history = append(history, domain.Message{Role: domain.DisplayRole(m.Role), Text: m.Content})
	}
	return history
}
