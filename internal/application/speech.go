package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voice-chat/internal/domain"
)

type Recognizer interface {
	Recognize(ctx context.Context, rec domain.Recording) (string, error)
}

type CaptureStatus int

const (
	CaptureOK CaptureStatus = iota
	CaptureUnintelligible
	CaptureUnreachable
)

func (s CaptureStatus) String() string {
	switch s {
	case CaptureOK:
		return "ok"
	case CaptureUnintelligible:
		return "unintelligible"
	case CaptureUnreachable:
		return "unreachable"
	default:
		return fmt.Sprintf("CaptureStatus(%d)", int(s))
	}
}

// Capture is the outcome of listening for one utterance. Text is only set
// when Status is CaptureOK.
type Capture struct {
	Status CaptureStatus
	Text   string
	Err    error
}

func (c Capture) OK() bool {
	return c.Status == CaptureOK
}

// Diagnostic is the message shown to the user when the capture failed.
func (c Capture) Diagnostic() string {
	switch c.Status {
	case CaptureUnintelligible:
		return "Sorry, I could not understand the audio."
	case CaptureUnreachable:
		return "Could not request results from the recognition service."
	default:
		return ""
	}
}

type SpeechCapture struct {
	recognizer Recognizer
}

func NewSpeechCapture(recognizer Recognizer) *SpeechCapture {
	return &SpeechCapture{recognizer: recognizer}
}

// CaptureUtterance listens on source for one utterance and recognizes it.
// Recognition failures come back as a non-OK Capture; the returned error is
// reserved for the audio source itself failing or the context ending.
func (c *SpeechCapture) CaptureUtterance(ctx context.Context, source AudioSource) (Capture, error) {
	rec, err := source.Listen(ctx)
	if err != nil {
		return Capture{}, fmt.Errorf("listening on %s: %w", source.Name(), err)
	}

	if rec.Empty() {
		return Capture{Status: CaptureUnintelligible, Err: ErrUnintelligible}, nil
	}

	text, err := c.recognizer.Recognize(ctx, rec)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Capture{}, ctxErr
		}
		if errors.Is(err, ErrUnintelligible) {
			return Capture{Status: CaptureUnintelligible, Err: err}, nil
		}
		return Capture{Status: CaptureUnreachable, Err: err}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Capture{Status: CaptureUnintelligible, Err: ErrUnintelligible}, nil
	}

	return Capture{Status: CaptureOK, Text: text}, nil
}

// NoopRecognizer is used when no recognition backend is configured.
type NoopRecognizer struct{}

func (n *NoopRecognizer) Recognize(_ context.Context, _ domain.Recording) (string, error) {
	return "", fmt.Errorf("%w: speech-to-text not configured: set recognition.provider", ErrServiceUnreachable)
}
