package game

import (
	"context"
	"fmt"
)

// Session is one game on one connection. It is owned by a single goroutine
// and needs no locking.
type Session struct {
	id         string
	secret     string
	commitment string
	validator  *Validator

	phase    Phase
	round    int
	rejected int
	hints    []string

	onReply func(Reply)
}

// NewSession fixes the secret and its commitment for the session's lifetime.
// The secret must be an accepted guess, or the game could never be won.
func NewSession(id, secret string, dict Dictionary) (*Session, error) {
	v := NewValidator(dict)
	w, err := v.Validate(secret)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	return &Session{
		id:         id,
		secret:     w,
		commitment: Commit(w),
		validator:  v,
		phase:      PhaseAwaitingKey,
	}, nil
}

func (s *Session) ID() string         { return s.id }
func (s *Session) Phase() Phase       { return s.phase }
func (s *Session) Round() int         { return s.round }
func (s *Session) Commitment() string { return s.commitment }

// OnReply registers a hook called after every scored or rejected guess.
func (s *Session) OnReply(fn func(Reply)) { s.onReply = fn }

// Start moves the session out of AwaitingKey and returns the opening
// payload: a blank hint followed by the commitment.
func (s *Session) Start() (string, error) {
	if s.phase != PhaseAwaitingKey {
		return "", fmt.Errorf("start in phase %s", s.phase)
	}
	s.phase = PhaseAwaitingGuess
	return openingPayload(s.commitment), nil
}

// Guess scores one decrypted guess.
func (s *Session) Guess(raw string) (Reply, error) {
	switch s.phase {
	case PhaseAwaitingKey:
		return Reply{}, ErrNotStarted
	case PhaseTerminated:
		return Reply{}, ErrSessionClosed
	}

	guess, err := s.validator.Validate(raw)
	if err != nil {
		s.rejected++
		r := Reply{Outcome: OutcomeRejected, Payload: invalidPayload, Round: s.round, Err: err}
		s.notify(r)
		return r, nil
	}

	s.phase = PhaseScoring
	s.round++

	var r Reply
	if hint := ComputeHint(guess, s.secret); IsSolved(hint) {
		s.phase = PhaseTerminated
		r = Reply{Outcome: OutcomeWon, Payload: winPayload(s.round), Round: s.round}
	} else {
		s.hints = append(s.hints, hint)
		s.phase = PhaseAwaitingGuess
		r = Reply{Outcome: OutcomeHint, Payload: hint, Round: s.round}
	}
	s.notify(r)
	return r, nil
}

// Play runs the session over ch until the secret is guessed, the channel
// fails or ctx is cancelled. A win returns nil.
func (s *Session) Play(ctx context.Context, ch Channel) error {
	if s.phase == PhaseAwaitingKey {
		opening, err := s.Start()
		if err != nil {
			return err
		}
		if err := ch.Send(opening); err != nil {
			s.phase = PhaseTerminated
			return err
		}
	}

	for s.phase != PhaseTerminated {
		if err := ctx.Err(); err != nil {
			s.phase = PhaseTerminated
			return err
		}
		msg, err := ch.Receive()
		if err != nil {
			s.phase = PhaseTerminated
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		reply, err := s.Guess(msg)
		if err != nil {
			return err
		}
		if err := ch.Send(reply.Payload); err != nil {
			s.phase = PhaseTerminated
			return err
		}
	}
	return nil
}

func (s *Session) notify(r Reply) {
	if s.onReply != nil {
		s.onReply(r)
	}
}
