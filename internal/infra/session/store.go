package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-chat/internal/application"
)

// Store keeps sessions in process memory. Sessions idle for longer than the
// idle timeout are dropped by Sweep, which releases their conversation.
type Store struct {
	starter     application.ConversationStarter
	idleTimeout time.Duration
	logger      *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*application.Session
}

func NewStore(starter application.ConversationStarter, idleTimeout time.Duration, logger *slog.Logger) *Store {
	return &Store{
		starter:     starter,
		idleTimeout: idleTimeout,
		logger:      logger,
		sessions:    make(map[string]*application.Session),
	}
}

// GetOrCreate returns the session for id, creating it when id is unknown or
// empty. The bool reports whether a new session was created. New sessions
// always get a server-generated id; a client cannot pick its own.
func (s *Store) GetOrCreate(id string) (*application.Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id = uuid.NewString()
	sess := application.NewSession(id, s.starter)
	s.sessions[id] = sess
	s.logger.Info("session created", "session", id)
	return sess, true
}

func (s *Store) Get(id string) (*application.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions last seen before now minus the idle timeout and
// returns how many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.idleTimeout {
			delete(s.sessions, id)
			removed++
			s.logger.Info("session expired", "session", id, "hadConversation", sess.HasHandle())
		}
	}
	return removed
}

func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.idleTimeout <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.Sweep(now); n > 0 {
					s.logger.Debug("janitor sweep", "removed", n, "remaining", s.Len())
				}
			}
		}
	}()
}
