// Package player is the console client: it opens a session with the
// authority, screens guesses locally and checks every reply against the
// commitment sent at game start.
package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"example.com/wordle-tls/internal/game"
	"example.com/wordle-tls/internal/protocol"
	"example.com/wordle-tls/internal/secure"
)

// ErrIntegrityViolation means the authority refused a guess whose digest
// matched the commitment.
var ErrIntegrityViolation = errors.New("server integrity check: cheating detected")

const (
	msgPrompt      = "Enter a 5 letter word: "
	msgInvalid     = "Error. User input is invalid."
	msgTooShort    = "Error. User input is too short."
	msgTooLong     = "Error. User input is too long."
	msgVerified    = "Your guess has been verified to match the target word."
	msgCheating    = "SERVER INTEGRITY CHECK: Cheating Detected."
	msgNoCheating  = "SERVER INTEGRITY CHECK: No Cheating Was Detected."
	msgUnverified  = "SERVER INTEGRITY CHECK: Win could not be verified against the commitment."
	msgRoundsLabel = "Number of valid guesses: %d"
)

// maxLine bounds one console line; longer lines are reported as too long.
const maxLine = 4096

// Result describes a finished game.
type Result struct {
	Rounds   int
	Verified bool   // winning guess matched the commitment
	Message  string // server text after the round count
}

type Client struct {
	in   *bufio.Reader
	out  io.Writer
	idle time.Duration
}

func New(in io.Reader, out io.Writer) *Client {
	return &Client{in: bufio.NewReaderSize(in, maxLine), out: out}
}

// SetIdleTimeout bounds the wait for each authority reply. Zero disables it.
func (c *Client) SetIdleTimeout(d time.Duration) { c.idle = d }

// Play runs one game over conn and closes it on return.
func (c *Client) Play(ctx context.Context, conn net.Conn) (Result, error) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, commitment, err := c.start(conn)
	if err != nil {
		return Result{}, c.transportErr(ctx, err)
	}

	for {
		guess, err := c.readGuess()
		if err != nil {
			return Result{}, err
		}

		matched := game.MatchesCommitment(commitment, guess)
		if matched {
			c.println(msgVerified)
		}

		if err := ch.Send(guess); err != nil {
			return Result{}, c.transportErr(ctx, err)
		}
		reply, err := ch.Receive()
		if err != nil {
			return Result{}, c.transportErr(ctx, err)
		}

		rounds, text, won := protocol.ParseWin(reply)
		switch {
		case matched && !won:
			c.println(msgCheating)
			return Result{}, ErrIntegrityViolation
		case won:
			if matched {
				c.println(msgNoCheating)
			} else {
				c.println(msgUnverified)
			}
			c.println(fmt.Sprintf(msgRoundsLabel, rounds))
			fmt.Fprint(c.out, text)
			return Result{Rounds: rounds, Verified: matched, Message: text}, nil
		default:
			c.println(reply)
		}
	}
}

func (c *Client) start(conn net.Conn) (*protocol.Channel, string, error) {
	key, err := secure.NewKey()
	if err != nil {
		return nil, "", err
	}
	hs, err := protocol.EncodeHandshake(key)
	if err != nil {
		return nil, "", err
	}
	if err := protocol.WriteFrame(conn, hs); err != nil {
		return nil, "", fmt.Errorf("send handshake: %w", err)
	}

	box, err := secure.NewBox(key)
	if err != nil {
		return nil, "", err
	}
	ch := protocol.NewChannel(conn, box, protocol.Player)
	ch.SetIdleTimeout(c.idle)

	opening, err := ch.Receive()
	if err != nil {
		return nil, "", fmt.Errorf("game start unsuccessful: %w", err)
	}
	commitment, err := protocol.ParseOpening(opening, game.WordLength)
	if err != nil {
		return nil, "", fmt.Errorf("game start unsuccessful: %w", err)
	}
	c.println(opening[:game.WordLength])
	return ch, commitment, nil
}

// readGuess prompts until a structurally valid word is entered. Stray
// spaces around the typed word are dropped before checking.
func (c *Client) readGuess() (string, error) {
	for {
		fmt.Fprint(c.out, msgPrompt)
		line, tooLong, err := c.readLine()
		if err != nil {
			return "", fmt.Errorf("read guess: %w", err)
		}
		if tooLong {
			c.println(msgTooLong)
			continue
		}
		word, err := game.CheckStructure(strings.TrimSpace(line))
		if err == nil {
			return word, nil
		}
		reason, _ := game.ReasonOf(err)
		switch reason {
		case game.TooShort:
			c.println(msgTooShort)
		case game.TooLong:
			c.println(msgTooLong)
		default:
			c.println(msgInvalid)
		}
	}
}

// readLine returns one line without its terminator. A line over maxLine is
// consumed and reported as tooLong.
func (c *Client) readLine() (line string, tooLong bool, err error) {
	b, isPrefix, err := c.in.ReadLine()
	if err != nil {
		return "", false, err
	}
	if !isPrefix {
		return string(b), false, nil
	}
	for isPrefix {
		if _, isPrefix, err = c.in.ReadLine(); err != nil {
			return "", true, err
		}
	}
	return "", true, nil
}

func (c *Client) transportErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Client) println(s string) {
	fmt.Fprint(c.out, s, "\n\n")
}
