package game

import "example.com/wordle-tls/internal/protocol"

const invalidPayload = protocol.InvalidGuess

func openingPayload(commitment string) string {
	return protocol.FormatOpening(WordLength, commitment)
}

func winPayload(rounds int) string { return protocol.FormatWin(rounds) }
