package game

import "errors"

type Phase string

const (
	PhaseAwaitingKey   Phase = "awaiting_key"
	PhaseAwaitingGuess Phase = "awaiting_guess"
	PhaseScoring       Phase = "scoring"
	PhaseTerminated    Phase = "terminated"
)

var (
	ErrNotStarted    = errors.New("session not started")
	ErrSessionClosed = errors.New("session terminated")
)

// Channel is the decrypted message stream of one connection.
type Channel interface {
	Send(msg string) error
	Receive() (string, error)
}

type Outcome string

const (
	OutcomeRejected Outcome = "rejected"
	OutcomeHint     Outcome = "hint"
	OutcomeWon      Outcome = "won"
)

// Reply is the authority's answer to one received guess.
type Reply struct {
	Outcome Outcome
	Payload string
	Round   int
	Err     error // validation failure for rejected guesses
}
