package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowdns/burrow/internal/dns"
)

type readResult struct {
	payload []byte
	err     error
}

// scriptedConn feeds a fixed sequence of read results to the worker loop and
// records everything written back. Once the script is exhausted, reads block
// until Close and then fail with net.ErrClosed, matching a real socket.
type scriptedConn struct {
	mu     sync.Mutex
	reads  []readResult
	writes [][]byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newScriptedConn(reads ...readResult) *scriptedConn {
	return &scriptedConn{reads: reads, closed: make(chan struct{})}
}

func (c *scriptedConn) ReadFromUDP(b []byte) (int, *net.UDPAddr, error) {
	c.mu.Lock()
	if len(c.reads) > 0 {
		r := c.reads[0]
		c.reads = c.reads[1:]
		c.mu.Unlock()
		if r.err != nil {
			return 0, nil, r.err
		}
		n := copy(b, r.payload)
		return n, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000}, nil
	}
	c.mu.Unlock()
	<-c.closed
	return 0, nil, net.ErrClosed
}

func (c *scriptedConn) WriteToUDP(b []byte, _ *net.UDPAddr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (c *scriptedConn) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes)
}

func (c *scriptedConn) write(i int) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes[i]
}

func (c *scriptedConn) LocalAddr() net.Addr {
	return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 5353}
}

func (c *scriptedConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func TestWorker_SurvivesTransientReadError(t *testing.T) {
	qname, err := dns.NameFromString("retry.example.com")
	require.NoError(t, err)
	query, err := (&dns.Packet{
		Header:    dns.Header{ID: 0x0F0F, Flags: dns.RDFlag},
		Questions: []dns.Question{{Name: qname, Type: dns.TypeA, Class: dns.ClassIN}},
	}).Marshal()
	require.NoError(t, err)

	// An ICMP-style receive error followed by a valid datagram. The worker
	// must shrug off the error and still answer the query.
	conn := newScriptedConn(
		readResult{err: errors.New("read udp 127.0.0.1:5353: connection refused")},
		readResult{payload: query},
	)
	srv := &Server{Workers: 1, Stats: NewStats(), conn: conn}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, Echo()) }()

	require.Eventually(t, func() bool { return conn.writeCount() == 1 },
		2*time.Second, 5*time.Millisecond, "worker should keep serving after a transient read error")
	assert.Equal(t, query, conn.write(0))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	snap := srv.Stats.Snapshot()
	assert.Equal(t, uint64(1), snap.Received)
	assert.Equal(t, uint64(1), snap.Responses)
}
