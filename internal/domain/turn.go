package domain

import "time"

type TurnState string

const (
	TurnIdle         TurnState = "idle"
	TurnCapturing    TurnState = "capturing"
	TurnCaptured     TurnState = "captured"
	TurnSending      TurnState = "sending"
	TurnReplied      TurnState = "replied"
	TurnSynthesizing TurnState = "synthesizing"
	TurnPlayed       TurnState = "played"
	TurnAborted      TurnState = "aborted"
)

// Turn is one user utterance and the assistant reply it produced.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	ClipID    string    `json:"clip_id,omitempty"`
	At        time.Time `json:"at"`
}

// TurnEvent is reported to observers on every state change of a turn.
type TurnEvent struct {
	State      TurnState `json:"state"`
	Text       string    `json:"text,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
}
