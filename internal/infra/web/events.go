package web

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

const (
	writeWait    = 10 * time.Second
	subscriberQ  = 16
	pingInterval = 30 * time.Second
)

// Event is what the page receives over the events socket.
type Event struct {
	domain.TurnEvent
	Message string `json:"message,omitempty"`
}

func newEvent(e domain.TurnEvent) Event {
	ev := Event{TurnEvent: e}
	switch e.State {
	case domain.TurnCapturing:
		ev.Message = "Listening..."
	case domain.TurnCaptured:
		ev.Message = "You said: " + e.Text
	case domain.TurnAborted:
		ev.Message = e.Diagnostic
	}
	return ev
}

// Hub fans turn events out to the sockets open for a session.
type Hub struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		subs:   make(map[string]map[chan Event]struct{}),
	}
}

func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, subscriberQ)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan Event]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[sessionID], ch)
			if len(h.subs[sessionID]) == 0 {
				delete(h.subs, sessionID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish never blocks; a subscriber with a full queue misses the event.
func (h *Hub) Publish(sessionID string, e domain.TurnEvent) {
	ev := newEvent(e)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[sessionID] {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("dropping event for slow subscriber", "session", sessionID, "state", e.State)
		}
	}
}

func (h *Hub) Observer(sessionID string) application.TurnObserver {
	return application.ObserverFunc(func(e domain.TurnEvent) {
		h.Publish(sessionID, e)
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Hub) serve(c *gin.Context, sessionID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.Subscribe(sessionID)
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", "session", sessionID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
