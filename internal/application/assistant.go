package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-chat/internal/domain"
)

type Assistant struct {
	capture   *SpeechCapture
	synthesis *SpeechSynthesis
	logger    *slog.Logger
}

func NewAssistant(capture *SpeechCapture, synthesis *SpeechSynthesis, logger *slog.Logger) *Assistant {
	return &Assistant{
		capture:   capture,
		synthesis: synthesis,
		logger:    logger,
	}
}

type TurnRequest struct {
	Session  *Session
	Source   AudioSource
	Player   Player
	Observer TurnObserver
}

// Outcome describes how a turn ended. Turn is set once the conversation
// replied, even if synthesis failed afterwards.
type Outcome struct {
	State      domain.TurnState
	Turn       *domain.Turn
	Diagnostic string
}

// Turn runs one capture, send, synthesize cycle for the request's session.
// A failed capture is not an error: it yields an aborted Outcome with a
// diagnostic and the conversation is never contacted.
func (a *Assistant) Turn(ctx context.Context, req TurnRequest) (Outcome, error) {
	release, ok := req.Session.beginTurn()
	if !ok {
		return Outcome{State: domain.TurnIdle}, ErrTurnInProgress
	}
	defer release()

	req.Session.Touch()

	obs := req.Observer
	if obs == nil {
		obs = NoopObserver{}
	}

	logger := a.logger.With("session", req.Session.ID())

	obs.Observe(domain.TurnEvent{State: domain.TurnCapturing})
	logger.Info("listening", "source", req.Source.Name())

	capture, err := a.capture.CaptureUtterance(ctx, req.Source)
	if err != nil {
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted})
		return Outcome{State: domain.TurnAborted}, fmt.Errorf("capturing utterance: %w", err)
	}

	if !capture.OK() {
		logger.Warn("capture failed, aborting turn", "status", capture.Status, "error", capture.Err)
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted, Diagnostic: capture.Diagnostic()})
		return Outcome{State: domain.TurnAborted, Diagnostic: capture.Diagnostic()}, nil
	}

	logger.Info("recognized", "text", capture.Text)
	obs.Observe(domain.TurnEvent{State: domain.TurnCaptured, Text: capture.Text})

	handle, err := req.Session.Handle(ctx)
	if err != nil {
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted})
		return Outcome{State: domain.TurnAborted}, fmt.Errorf("%w: %w", ErrConversation, err)
	}

	obs.Observe(domain.TurnEvent{State: domain.TurnSending})

	reply, err := handle.Send(ctx, capture.Text)
	if err != nil {
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted})
		return Outcome{State: domain.TurnAborted}, fmt.Errorf("%w: sending utterance: %w", ErrConversation, err)
	}
	if strings.TrimSpace(reply) == "" {
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted})
		return Outcome{State: domain.TurnAborted}, fmt.Errorf("%w: empty reply", ErrConversation)
	}

	turn := domain.Turn{
		User:      capture.Text,
		Assistant: reply,
		At:        time.Now(),
	}
	index := req.Session.record(turn)

	logger.Info("replied", "chars", len(reply))
	obs.Observe(domain.TurnEvent{State: domain.TurnReplied, Text: reply})
	obs.Observe(domain.TurnEvent{State: domain.TurnSynthesizing})

	clip, err := a.synthesis.Speak(ctx, reply, req.Player)
	if err != nil {
		obs.Observe(domain.TurnEvent{State: domain.TurnAborted})
		return Outcome{State: domain.TurnAborted, Turn: &turn}, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}

	turn.ClipID = clip
	req.Session.attachClip(index, clip)

	obs.Observe(domain.TurnEvent{State: domain.TurnPlayed})
	obs.Observe(domain.TurnEvent{State: domain.TurnIdle})

	return Outcome{State: domain.TurnPlayed, Turn: &turn}, nil
}
