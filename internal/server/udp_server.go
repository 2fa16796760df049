package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/burrowdns/burrow/internal/dns"
	"github.com/burrowdns/burrow/internal/pool"
)

// udpRcvBufSize is the socket receive buffer requested at bind time. A
// deeper kernel queue absorbs bursts while all workers are busy decoding.
const udpRcvBufSize = 4 << 20

var bufferPool = pool.New(func() *[]byte {
	buf := make([]byte, dns.MaxIncomingMessageSize)
	return &buf
})

// udpConn is the slice of *net.UDPConn the server uses. Narrowing it to an
// interface lets tests script read errors that are hard to provoke on a real
// socket.
type udpConn interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
	WriteToUDP(b []byte, addr *net.UDPAddr) (int, error)
	LocalAddr() net.Addr
	Close() error
}

// Server owns one UDP socket and fans incoming datagrams out to a fixed set
// of worker goroutines. Construct it with Bind or NewOnConn, then call Serve.
type Server struct {
	// Workers is the number of worker goroutines. Zero or negative means
	// one per available CPU.
	Workers int

	// Logger receives per-datagram diagnostics. Nil disables logging.
	Logger *slog.Logger

	// Stats, when set, collects datagram counters.
	Stats *Stats

	conn udpConn
}

// Bind opens a UDP socket on addr and returns a server ready to Serve.
// The address uses host:port form; an empty host binds all interfaces.
func Bind(addr string) (*Server, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				// Best effort; the kernel may cap it below the request.
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, udpRcvBufSize)
			})
		},
	}
	pc, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return nil, err
	}
	return NewOnConn(pc.(*net.UDPConn)), nil
}

// NewOnConn wraps an already bound UDP socket. The server takes ownership
// and closes it when Serve returns.
func NewOnConn(conn *net.UDPConn) *Server {
	return &Server{conn: conn}
}

// LocalAddr returns the bound address of the underlying socket.
func (s *Server) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Serve runs the receive loop until ctx is cancelled. It starts the worker
// pool, with every worker blocking on the shared socket; the kernel picks
// which worker each datagram wakes, so no user-space queue sits between the
// socket and the handler.
//
// Cancelling ctx closes the socket, which unblocks all pending reads; Serve
// returns once every worker has exited and always returns nil on cooperative
// shutdown.
func (s *Server) Serve(ctx context.Context, h Handler) error {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	stop := context.AfterFunc(ctx, func() {
		s.conn.Close()
	})
	defer stop()
	defer s.conn.Close()

	if s.Logger != nil {
		s.Logger.Info("udp server listening",
			slog.String("addr", s.conn.LocalAddr().String()),
			slog.Int("workers", workers))
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(h)
		}()
	}
	wg.Wait()
	return nil
}

// worker is the per-goroutine receive/decode/dispatch/reply loop. It exits
// only when the socket is closed; other read errors are transient on an
// unconnected UDP socket (ICMP notifications and the like), so the worker
// logs them and keeps receiving rather than shrinking the pool.
func (s *Server) worker(h Handler) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, client, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if s.Logger != nil {
				s.Logger.Warn("transient receive error",
					slog.String("error", err.Error()))
			}
			continue
		}

		s.handleDatagram(h, client, buf[:n])

		// ParsePacket copies everything it keeps, so the buffer can be
		// reused as soon as the datagram has been handled.
		bufferPool.Put(bufPtr)
	}
}

func (s *Server) handleDatagram(h Handler, client *net.UDPAddr, payload []byte) {
	if s.Stats != nil {
		s.Stats.RecordReceived()
	}

	req, err := dns.ParsePacket(payload)
	if err != nil {
		// Undecodable datagrams are dropped without a reply; anything we
		// could send back would be guesswork about a broken message.
		if s.Stats != nil {
			s.Stats.RecordDropped()
		}
		if s.Logger != nil {
			s.Logger.Debug("dropping undecodable datagram",
				slog.String("client", client.String()),
				slog.Int("size", len(payload)),
				slog.String("error", err.Error()))
		}
		return
	}
	if s.Stats != nil {
		s.Stats.RecordDecoded()
	}

	resp := h.Handle(client, req)
	if resp == nil {
		return
	}

	out, err := resp.Marshal()
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("failed to encode response",
				slog.String("client", client.String()),
				slog.String("error", err.Error()))
		}
		return
	}

	if _, err := s.conn.WriteToUDP(out, client); err != nil {
		if s.Stats != nil {
			s.Stats.RecordSendError()
		}
		if s.Logger != nil {
			s.Logger.Warn("failed to send response",
				slog.String("client", client.String()),
				slog.String("error", err.Error()))
		}
		return
	}
	if s.Stats != nil {
		s.Stats.RecordResponse()
	}
}
