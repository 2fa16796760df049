package server

import "sync/atomic"

// Stats collects datagram-level counters for the server.
// All methods are safe for concurrent use.
type Stats struct {
	received   atomic.Uint64
	decoded    atomic.Uint64
	dropped    atomic.Uint64
	responses  atomic.Uint64
	sendErrors atomic.Uint64
}

// NewStats creates a new statistics collector.
func NewStats() *Stats {
	return &Stats{}
}

// RecordReceived records one datagram read off the socket.
func (s *Stats) RecordReceived() { s.received.Add(1) }

// RecordDecoded records one datagram that decoded into a packet.
func (s *Stats) RecordDecoded() { s.decoded.Add(1) }

// RecordDropped records one datagram discarded because it failed to decode.
func (s *Stats) RecordDropped() { s.dropped.Add(1) }

// RecordResponse records one reply written back to a client.
func (s *Stats) RecordResponse() { s.responses.Add(1) }

// RecordSendError records one failed reply write.
func (s *Stats) RecordSendError() { s.sendErrors.Add(1) }

// Snapshot is a point-in-time view of the server counters.
type Snapshot struct {
	Received   uint64 `json:"received"`
	Decoded    uint64 `json:"decoded"`
	Dropped    uint64 `json:"dropped"`
	Responses  uint64 `json:"responses"`
	SendErrors uint64 `json:"send_errors"`
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Received:   s.received.Load(),
		Decoded:    s.decoded.Load(),
		Dropped:    s.dropped.Load(),
		Responses:  s.responses.Load(),
		SendErrors: s.sendErrors.Load(),
	}
}
