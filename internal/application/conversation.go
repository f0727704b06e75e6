package application

import (
	"context"

	"voice-chat/internal/domain"
)

// Conversation is a handle on chat history kept by a generative-text service.
// Send extends that history only when it succeeds.
type Conversation interface {
	Send(ctx context.Context, utterance string) (string, error)
	History() []domain.Message
}

type ConversationStarter interface {
	StartConversation(ctx context.Context) (Conversation, error)
}
