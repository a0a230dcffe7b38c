package game

// Snapshot is a copy of a session's state for logs, stats and tests. It
// never carries the secret.
type Snapshot struct {
	ID         string   `json:"id"`
	Phase      Phase    `json:"phase"`
	Round      int      `json:"round"`
	Rejected   int      `json:"rejected"`
	Commitment string   `json:"commitment"`
	Hints      []string `json:"hints"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:         s.id,
		Phase:      s.phase,
		Round:      s.round,
		Rejected:   s.rejected,
		Commitment: s.commitment,
		Hints:      append([]string(nil), s.hints...),
	}
}
