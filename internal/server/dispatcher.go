package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"example.com/wordle-tls/internal/game"
	"example.com/wordle-tls/internal/protocol"
	"example.com/wordle-tls/internal/secure"
)

// TargetPicker hands out one secret per session.
type TargetPicker interface {
	RandomTarget() (string, error)
}

type Config struct {
	IdleTimeout      time.Duration // 0 => no idle deadline
	HandshakeTimeout time.Duration // 0 => no deadline for TLS + START GAME
	MaxSessions      int64
	LogTargets       bool
}

// Dispatcher accepts connections and runs one isolated game per connection.
type Dispatcher struct {
	cfg     Config
	log     *slog.Logger
	targets TargetPicker
	dict    game.Dictionary

	sem   *semaphore.Weighted
	wg    sync.WaitGroup
	stats counters
}

func New(cfg Config, targets TargetPicker, dict game.Dictionary, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1
	}
	return &Dispatcher{
		cfg:     cfg,
		log:     log,
		targets: targets,
		dict:    dict,
		sem:     semaphore.NewWeighted(cfg.MaxSessions),
	}
}

// Serve accepts until ctx is cancelled or ln fails, then waits for running
// sessions. Timeout errors from Accept are retried with backoff; any other
// error is returned. Cancelling ctx closes ln and every live connection.
func (d *Dispatcher) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer d.wg.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var ne net.Error
			if !errors.As(err, &ne) || !ne.Timeout() {
				return fmt.Errorf("accept: %w", err)
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			d.log.Warn("accept failed, retrying", "err", err, "delay", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		if !d.sem.TryAcquire(1) {
			d.stats.rejected.Add(1)
			d.log.Warn("session limit reached, closing connection", "remote", conn.RemoteAddr().String())
			_ = conn.Close()
			continue
		}

		d.stats.accepted.Add(1)
		d.stats.active.Add(1)
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			defer func() {
				d.sem.Release(1)
				d.stats.active.Add(-1)
			}()
			d.handle(ctx, conn)
		}()
	}
}

func (d *Dispatcher) handle(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	log := d.log.With("session", id, "remote", conn.RemoteAddr().String())

	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	box, err := d.handshake(ctx, conn)
	if err != nil {
		d.stats.handshakeFailures.Add(1)
		log.Warn("game start unsuccessful", "err", err)
		return
	}

	secret, err := d.targets.RandomTarget()
	if err != nil {
		log.Error("pick target", "err", err)
		return
	}
	sess, err := game.NewSession(id, secret, d.dict)
	if err != nil {
		log.Error("new session", "err", err)
		return
	}
	if d.cfg.LogTargets {
		log.Debug("target selected", "target", secret)
	}
	sess.OnReply(func(r game.Reply) {
		if r.Err != nil {
			log.Debug("guess rejected", "round", r.Round, "reason", r.Err)
			return
		}
		log.Debug("guess scored", "round", r.Round, "outcome", r.Outcome)
	})

	ch := protocol.NewChannel(conn, box, protocol.Authority)
	ch.SetIdleTimeout(d.cfg.IdleTimeout)

	log.Info("game starting")
	err = sess.Play(ctx, ch)
	snap := sess.Snapshot()

	var ne net.Error
	switch {
	case err == nil:
		d.stats.won.Add(1)
		log.Info("game won", "rounds", snap.Round, "rejected", snap.Rejected)
	case errors.Is(err, secure.ErrAuthentication):
		d.stats.aborted.Add(1)
		log.Warn("message authentication failed, closing session", "rounds", snap.Round)
	case errors.As(err, &ne) && ne.Timeout():
		d.stats.aborted.Add(1)
		log.Info("session idle, closing", "rounds", snap.Round)
	case ctx.Err() != nil:
		d.stats.aborted.Add(1)
		log.Info("session closed on shutdown", "rounds", snap.Round)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		d.stats.aborted.Add(1)
		log.Info("player disconnected", "rounds", snap.Round)
	default:
		d.stats.aborted.Add(1)
		log.Warn("session failed", "err", err, "rounds", snap.Round)
	}
}

// handshake completes TLS (when conn is TLS) and reads the START GAME
// frame, returning the session's Box.
func (d *Dispatcher) handshake(ctx context.Context, conn net.Conn) (*secure.Box, error) {
	if d.cfg.HandshakeTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(d.cfg.HandshakeTimeout))
		defer conn.SetDeadline(time.Time{})
	}

	if tc, ok := conn.(*tls.Conn); ok {
		if err := tc.HandshakeContext(ctx); err != nil {
			return nil, fmt.Errorf("tls handshake: %w", err)
		}
	}

	frame, err := protocol.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("read handshake: %w", err)
	}
	key, err := protocol.ParseHandshake(frame)
	if err != nil {
		return nil, err
	}
	box, err := secure.NewBox(key)
	if err != nil {
		return nil, &protocol.HandshakeError{Msg: err.Error()}
	}
	return box, nil
}
