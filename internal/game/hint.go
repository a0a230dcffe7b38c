package game

// Absent marks a hint position whose guessed letter is not disclosed.
const Absent = '_'

// ComputeHint scores guess against secret. Both must be uppercase ASCII of
// equal length (see CheckStructure).
//
// An exact match keeps the uppercase letter, a misplaced letter is lowered,
// everything else is Absent. Misplaced markers for a letter are only handed
// out while the letter's exact+misplaced markers across the hint stay below
// its count in the secret.
func ComputeHint(guess, secret string) string {
	n := len(guess)
	hint := make([]byte, n)

	var inSecret [26]int
	for i := 0; i < len(secret); i++ {
		inSecret[letterIndex(secret[i])]++
	}

	// exact
	var marked [26]int
	for i := 0; i < n; i++ {
		if guess[i] == secret[i] {
			hint[i] = guess[i]
			marked[letterIndex(guess[i])]++
		} else {
			hint[i] = Absent
		}
	}

	// misplaced
	for i := 0; i < n; i++ {
		if hint[i] != Absent {
			continue
		}
		j := letterIndex(guess[i])
		if inSecret[j] == 0 {
			continue
		}
		if marked[j] < inSecret[j] {
			hint[i] = toLower(guess[i])
			marked[j]++
		}
	}

	return string(hint)
}

// IsSolved reports whether hint is all exact markers.
func IsSolved(hint string) bool {
	if hint == "" {
		return false
	}
	for i := 0; i < len(hint); i++ {
		if hint[i] < 'A' || hint[i] > 'Z' {
			return false
		}
	}
	return true
}

func letterIndex(c byte) int { return int(c - 'A') }

func toLower(c byte) byte { return c + ('a' - 'A') }
