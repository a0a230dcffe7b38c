package player

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wordle-tls/internal/game"
	"example.com/wordle-tls/internal/protocol"
	"example.com/wordle-tls/internal/secure"
)

type dict map[string]bool

func (d dict) Contains(w string) bool { return d[w] }

var testDict = dict{"CRANE": true, "SLATE": true, "GRAPE": true}

// authority accepts the handshake on conn and hands the channel to serve.
func authority(t *testing.T, conn net.Conn, serve func(ch *protocol.Channel) error) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		defer conn.Close()
		frame, err := protocol.ReadFrame(conn)
		if err != nil {
			done <- err
			return
		}
		key, err := protocol.ParseHandshake(frame)
		if err != nil {
			done <- err
			return
		}
		box, err := secure.NewBox(key)
		if err != nil {
			done <- err
			return
		}
		done <- serve(protocol.NewChannel(conn, box, protocol.Authority))
	}()
	return done
}

func honest(secret string) func(ch *protocol.Channel) error {
	return func(ch *protocol.Channel) error {
		s, err := game.NewSession("test", secret, testDict)
		if err != nil {
			return err
		}
		return s.Play(context.Background(), ch)
	}
}

// rigged commits to committed but scores against actual.
func rigged(committed, actual string) func(ch *protocol.Channel) error {
	return func(ch *protocol.Channel) error {
		if err := ch.Send(protocol.FormatOpening(game.WordLength, game.Commit(committed))); err != nil {
			return err
		}
		round := 0
		for {
			msg, err := ch.Receive()
			if err != nil {
				return err
			}
			round++
			guess := strings.ToUpper(msg)
			if guess == actual {
				return ch.Send(protocol.FormatWin(round))
			}
			if err := ch.Send(game.ComputeHint(guess, actual)); err != nil {
				return err
			}
		}
	}
}

func play(t *testing.T, input string, serve func(ch *protocol.Channel) error) (Result, string, error) {
	t.Helper()
	cliConn, srvConn := net.Pipe()
	done := authority(t, srvConn, serve)

	var out bytes.Buffer
	c := New(strings.NewReader(input), &out)
	c.SetIdleTimeout(5 * time.Second)
	res, err := c.Play(context.Background(), cliConn)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("authority did not finish")
	}
	return res, out.String(), err
}

func TestPlay_HonestWin(t *testing.T) {
	input := "abc\nabcdefg\nab1de\nslate\ncrane\n"
	res, out, err := play(t, input, honest("CRANE"))
	require.NoError(t, err)

	assert.Equal(t, Result{Rounds: 2, Verified: true, Message: protocol.WinMarker + "\n"}, res)
	for _, want := range []string{
		"_____\n",
		msgTooShort,
		msgTooLong,
		msgInvalid,
		"__A_E\n",
		msgVerified,
		msgNoCheating,
		"Number of valid guesses: 2",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, msgCheating)
}

func TestPlay_ConsoleInputEditing(t *testing.T) {
	long := strings.Repeat("a", 3*maxLine)
	res, out, err := play(t, long+"\n  crane \n", honest("CRANE"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rounds)
	assert.True(t, res.Verified)
	assert.Contains(t, out, msgTooLong)
}

func TestPlay_ServerRejectsUnknownWord(t *testing.T) {
	res, out, err := play(t, "xyzzy\ncrane\n", honest("CRANE"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rounds)
	assert.Contains(t, out, protocol.InvalidGuess)
}

func TestPlay_CheatingDetected(t *testing.T) {
	_, out, err := play(t, "slate\ncrane\n", rigged("CRANE", "GRAPE"))
	require.ErrorIs(t, err, ErrIntegrityViolation)
	assert.Contains(t, out, msgVerified)
	assert.Contains(t, out, msgCheating)
}

func TestPlay_UnverifiedWin(t *testing.T) {
	res, out, err := play(t, "grape\n", rigged("CRANE", "GRAPE"))
	require.NoError(t, err)
	assert.False(t, res.Verified)
	assert.Equal(t, 1, res.Rounds)
	assert.Contains(t, out, msgUnverified)
	assert.NotContains(t, out, msgVerified)
}

func TestPlay_InputClosed(t *testing.T) {
	_, _, err := play(t, "slate\n", honest("CRANE"))
	assert.ErrorIs(t, err, io.EOF)
}

func TestPlay_BadOpening(t *testing.T) {
	_, _, err := play(t, "", func(ch *protocol.Channel) error {
		return ch.Send("HELLO")
	})
	assert.ErrorIs(t, err, protocol.ErrBadOpening)
}

func TestPlay_Cancelled(t *testing.T) {
	cliConn, srvConn := net.Pipe()
	hold := make(chan struct{})
	done := authority(t, srvConn, func(ch *protocol.Channel) error {
		<-hold
		return nil
	})
	defer func() {
		close(hold)
		<-done
	}()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := New(strings.NewReader(""), io.Discard).Play(ctx, cliConn)
	assert.ErrorIs(t, err, context.Canceled)
}
