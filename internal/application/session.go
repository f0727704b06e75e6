package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voice-chat/internal/domain"
)

// Session is the per-user state a turn runs against. It owns at most one
// conversation handle.
type Session struct {
	id      string
	starter ConversationStarter

	mu         sync.Mutex
	handle     Conversation
	transcript []domain.Turn
	lastSeen   time.Time

	turn sync.Mutex
}

func NewSession(id string, starter ConversationStarter) *Session {
	return &Session{
		id:       id,
		starter:  starter,
		lastSeen: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Handle returns the session's conversation, creating it with empty history
// on first use. A failed creation is not cached.
func (s *Session) Handle(ctx context.Context) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return s.handle, nil
	}

	h, err := s.starter.StartConversation(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting conversation: %w", err)
	}
	s.handle = h
	return h, nil
}

// HasHandle reports whether a conversation was created for this session.
func (s *Session) HasHandle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Conversation returns the existing handle without creating one.
func (s *Session) Conversation() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle, s.handle != nil
}

func (s *Session) Transcript() []domain.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Turn, len(s.transcript))
	copy(result, s.transcript)
	return result
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) record(turn domain.Turn) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turn)
	return len(s.transcript) - 1
}

func (s *Session) attachClip(index int, clipID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.transcript) {
		s.transcript[index].ClipID = clipID
	}
}

func (s *Session) beginTurn() (func(), bool) {
	if !s.turn.TryLock() {
		return nil, false
	}
	return s.turn.Unlock, true
}

// SessionStore holds sessions by id for the lifetime of the process.
type SessionStore interface {
	GetOrCreate(id string) (*Session, bool)
	Get(id string) (*Session, bool)
}
