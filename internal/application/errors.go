package application

import "errors"

var (
	// ErrUnintelligible marks audio that could not be mapped to text.
	ErrUnintelligible = errors.New("speech not recognized")
	// ErrServiceUnreachable marks a recognition service that failed or could not be reached.
	ErrServiceUnreachable = errors.New("recognition service unreachable")

	ErrConversation   = errors.New("generative service error")
	ErrSynthesis      = errors.New("synthesis error")
	ErrTurnInProgress = errors.New("a turn is already in progress for this session")
)
