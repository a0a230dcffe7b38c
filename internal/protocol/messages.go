package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	InvalidGuess = "INVALID GUESS"
	WinMarker    = "GAME OVER"

	// Placeholder fills the opening hint slot, one per letter.
	Placeholder = '_'
)

var ErrBadOpening = errors.New("bad opening message")

// FormatOpening is the first encrypted message: a blank hint of the word's
// length followed by the commitment.
func FormatOpening(length int, commitment string) string {
	return strings.Repeat(string(Placeholder), length) + commitment
}

// ParseOpening splits an opening message into its commitment.
func ParseOpening(msg string, length int) (string, error) {
	if len(msg) <= length {
		return "", fmt.Errorf("%w: %d bytes", ErrBadOpening, len(msg))
	}
	if msg[:length] != strings.Repeat(string(Placeholder), length) {
		return "", fmt.Errorf("%w: unexpected initial hint %q", ErrBadOpening, msg[:length])
	}
	return msg[length:], nil
}

// FormatWin is sent for the winning guess; the session closes afterwards.
func FormatWin(rounds int) string {
	return strconv.Itoa(rounds) + WinMarker + "\n"
}

// ParseWin reports whether msg declares a win and with how many rounds.
// Hints and notices never contain digits.
func ParseWin(msg string) (rounds int, text string, ok bool) {
	i := 0
	for i < len(msg) && msg[i] >= '0' && msg[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(msg[:i])
	if err != nil {
		return 0, "", false
	}
	return n, msg[i:], true
}
