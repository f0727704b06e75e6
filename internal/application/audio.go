package application

import (
	"context"

	"voice-chat/internal/domain"
)

// AudioSource yields one utterance per Listen call. Implementations that own
// a device acquire it inside Listen and release it before returning.
type AudioSource interface {
	Listen(ctx context.Context) (domain.Recording, error)
	Name() string
}

// Player registers a synthesized clip for playback. The file at path only
// exists for the duration of the call; the returned reference identifies the
// clip to the presentation layer.
type Player interface {
	Play(ctx context.Context, path string) (string, error)
}
