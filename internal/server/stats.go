package server

import "sync/atomic"

type counters struct {
	accepted          atomic.Int64
	rejected          atomic.Int64
	handshakeFailures atomic.Int64
	active            atomic.Int64
	won               atomic.Int64
	aborted           atomic.Int64
}

// Stats is a point-in-time copy of the dispatcher counters.
type Stats struct {
	Accepted          int64 `json:"accepted"`
	Rejected          int64 `json:"rejected"` // refused at the session limit
	HandshakeFailures int64 `json:"handshakeFailures"`
	Active            int64 `json:"active"`
	Won               int64 `json:"won"`
	Aborted           int64 `json:"aborted"`
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted:          d.stats.accepted.Load(),
		Rejected:          d.stats.rejected.Load(),
		HandshakeFailures: d.stats.handshakeFailures.Load(),
		Active:            d.stats.active.Load(),
		Won:               d.stats.won.Load(),
		Aborted:           d.stats.aborted.Load(),
	}
}
