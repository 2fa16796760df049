// Package server implements a concurrent DNS server over UDP: a fixed pool
// of workers sharing one socket, each receiving, decoding, dispatching to a
// Handler, and replying independently.
package server

import (
	"net"

	"github.com/burrowdns/burrow/internal/dns"
)

// Handler is the single extension point of the server: given the client
// address and a fully decoded request, produce an optional response.
//
// A nil return means no reply is sent. Handlers never see raw bytes; the
// server only dispatches packets that decoded cleanly.
//
// Handle is invoked concurrently from every worker, so implementations must
// be safe for concurrent use; any mutable state they touch is their own
// synchronization responsibility.
type Handler interface {
	Handle(client *net.UDPAddr, req dns.Packet) *dns.Packet
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(client *net.UDPAddr, req dns.Packet) *dns.Packet

// Handle calls f(client, req).
func (f HandlerFunc) Handle(client *net.UDPAddr, req dns.Packet) *dns.Packet {
	return f(client, req)
}

// Echo returns every request unchanged. Useful for wire-level testing and as
// the smallest possible Handler example.
func Echo() Handler {
	return HandlerFunc(func(_ *net.UDPAddr, req dns.Packet) *dns.Packet {
		return &req
	})
}
