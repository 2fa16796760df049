package server_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowdns/burrow/internal/dns"
	"github.com/burrowdns/burrow/internal/server"
)

func startServer(t *testing.T, h server.Handler, workers int) (*server.Server, net.Addr) {
	t.Helper()
	srv, err := server.Bind("127.0.0.1:0")
	require.NoError(t, err)
	srv.Workers = workers
	srv.Stats = server.NewStats()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, h) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err, "Serve should return nil on cooperative shutdown")
		case <-time.After(5 * time.Second):
			t.Error("server did not shut down in time")
		}
	})
	return srv, srv.LocalAddr()
}

func dialServer(t *testing.T, addr net.Addr) *net.UDPConn {
	t.Helper()
	c, err := net.DialUDP("udp", nil, addr.(*net.UDPAddr))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func buildQuery(t *testing.T, id uint16, name string) []byte {
	t.Helper()
	qname, err := dns.NameFromString(name)
	require.NoError(t, err)
	p := dns.Packet{
		Header:    dns.Header{ID: id, Flags: dns.RDFlag},
		Questions: []dns.Question{{Name: qname, Type: dns.TypeA, Class: dns.ClassIN}},
	}
	b, err := p.Marshal()
	require.NoError(t, err)
	return b
}

func exchange(t *testing.T, c *net.UDPConn, req []byte) []byte {
	t.Helper()
	require.NoError(t, c.SetDeadline(time.Now().Add(3*time.Second)))
	_, err := c.Write(req)
	require.NoError(t, err)
	buf := make([]byte, dns.MaxIncomingMessageSize)
	n, err := c.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestServer_EchoRoundTrip(t *testing.T) {
	_, addr := startServer(t, server.Echo(), 2)
	c := dialServer(t, addr)

	req := buildQuery(t, 0x1234, "hello.world.com")
	require.Len(t, req, 33)
	resp := exchange(t, c, req)
	assert.Equal(t, req, resp, "echo handler should return the request unchanged")
}

func TestServer_HandlerSeesDecodedRequestAndClient(t *testing.T) {
	seen := make(chan dns.Packet, 1)
	h := server.HandlerFunc(func(client *net.UDPAddr, req dns.Packet) *dns.Packet {
		assert.NotNil(t, client)
		seen <- req
		resp := dns.BuildErrorResponse(req, dns.RCodeNXDomain)
		return &resp
	})
	_, addr := startServer(t, h, 1)
	c := dialServer(t, addr)

	respWire := exchange(t, c, buildQuery(t, 0x4242, "nope.example.com"))

	req := <-seen
	assert.Equal(t, uint16(0x4242), req.Header.ID)
	require.Len(t, req.Questions, 1)
	assert.Equal(t, "nope.example.com", req.Questions[0].Name.String())

	resp, err := dns.ParsePacket(respWire)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeNXDomain, resp.Header.RCode())
	assert.Equal(t, uint16(0x4242), resp.Header.ID)
}

func TestServer_ConcurrentClients(t *testing.T) {
	const (
		workers   = 4
		clients   = 8
		perClient = 25
	)
	srv, addr := startServer(t, server.Echo(), workers)

	// Queries are prebuilt on the test goroutine; client goroutines only
	// report errors through the channel.
	queries := make([][]byte, clients*perClient)
	for i := 0; i < clients; i++ {
		for j := 0; j < perClient; j++ {
			queries[i*perClient+j] = buildQuery(t, uint16(i<<8|j), fmt.Sprintf("q%d.example.com", j))
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			c, err := net.DialUDP("udp", nil, addr.(*net.UDPAddr))
			if err != nil {
				errs <- err
				return
			}
			defer c.Close()
			buf := make([]byte, dns.MaxIncomingMessageSize)
			for j := 0; j < perClient; j++ {
				id := uint16(clientID<<8 | j)
				req := queries[clientID*perClient+j]
				_ = c.SetDeadline(time.Now().Add(5 * time.Second))
				if _, err := c.Write(req); err != nil {
					errs <- err
					return
				}
				n, err := c.Read(buf)
				if err != nil {
					errs <- err
					return
				}
				resp, err := dns.ParsePacket(buf[:n])
				if err != nil {
					errs <- err
					return
				}
				if resp.Header.ID != id {
					errs <- fmt.Errorf("client %d got ID %#04x, want %#04x", clientID, resp.Header.ID, id)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	snap := srv.Stats.Snapshot()
	assert.Equal(t, uint64(clients*perClient), snap.Received)
	assert.Equal(t, uint64(clients*perClient), snap.Responses)
	assert.Zero(t, snap.Dropped)
}

func TestServer_MalformedDatagramSilentlyDropped(t *testing.T) {
	srv, addr := startServer(t, server.Echo(), 2)
	c := dialServer(t, addr)

	// Garbage gets no reply at all.
	_, err := c.Write([]byte{0xDE, 0xAD})
	require.NoError(t, err)

	// A valid query afterwards still works, proving the worker survived.
	req := buildQuery(t, 0x0A0B, "ok.example.com")
	resp := exchange(t, c, req)
	assert.Equal(t, req, resp)

	snap := srv.Stats.Snapshot()
	assert.Equal(t, uint64(1), snap.Dropped)
	assert.Equal(t, uint64(2), snap.Received)
	assert.Equal(t, uint64(1), snap.Responses)
}

func TestServer_NilResponseSendsNothing(t *testing.T) {
	silent := server.HandlerFunc(func(_ *net.UDPAddr, _ dns.Packet) *dns.Packet {
		return nil
	})
	_, addr := startServer(t, silent, 1)
	c := dialServer(t, addr)

	_, err := c.Write(buildQuery(t, 1, "quiet.example.com"))
	require.NoError(t, err)

	require.NoError(t, c.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	buf := make([]byte, 64)
	_, err = c.Read(buf)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout(), "read should time out because no reply was sent")
}

func TestServer_ServeReturnsNilOnCancel(t *testing.T) {
	srv, err := server.Bind("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, server.Echo()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestHandlerFunc_Adapts(t *testing.T) {
	called := false
	h := server.HandlerFunc(func(_ *net.UDPAddr, req dns.Packet) *dns.Packet {
		called = true
		return &req
	})
	resp := h.Handle(&net.UDPAddr{}, dns.Packet{})
	assert.True(t, called)
	assert.NotNil(t, resp)
}
