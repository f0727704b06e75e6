package web

import (
	"context"

	"voice-chat/internal/application"
	"voice-chat/internal/domain"
)

// exclusiveSource serializes Listen on a device shared by every session, so
// only one turn holds the microphone at a time.
type exclusiveSource struct {
	source application.AudioSource
	slot   chan struct{}
}

func newExclusiveSource(source application.AudioSource) *exclusiveSource {
	return &exclusiveSource{source: source, slot: make(chan struct{}, 1)}
}

func (s *exclusiveSource) Listen(ctx context.Context) (domain.Recording, error) {
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return domain.Recording{}, ctx.Err()
	}
	defer func() { <-s.slot }()

	return s.source.Listen(ctx)
}

func (s *exclusiveSource) Name() string {
	return s.source.Name()
}
