package application

import "voice-chat/internal/domain"

type TurnObserver interface {
	Observe(event domain.TurnEvent)
}

type NoopObserver struct{}

func (n NoopObserver) Observe(_ domain.TurnEvent) {}

type ObserverFunc func(event domain.TurnEvent)

func (f ObserverFunc) Observe(event domain.TurnEvent) {
	f(event)
}
