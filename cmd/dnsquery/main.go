// Command dnsquery sends a single DNS query over UDP and prints the decoded
// response. With -message it doubles as a chat client: the message is
// obfuscated into the leftmost label of an A query under the given name.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/burrowdns/burrow/internal/dns"
	"github.com/burrowdns/burrow/internal/tunnel"
)

func main() {
	var (
		server   = flag.String("server", "127.0.0.1:5353", "DNS server HOST:PORT")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.Int("qtype", 1, "Query type (numeric, A=1, TXT=16)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Timeout")
		recvSize = flag.Int("recv-size", 2048, "UDP receive buffer size")
		message  = flag.String("message", "", "Chat message to smuggle under -name")
		xorKey   = flag.Int("xor-key", 0x5A, "XOR key for -message")
		signal   = flag.String("signal", "msg", "Signal prefix for -message")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	qname, err := buildName(*name, *message, byte(*xorKey), *signal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		os.Exit(1)
	}

	resp, err := queryUDP(*server, qname, dns.RecordType(*qtype), *timeout, *recvSize)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	p, err := dns.ParsePacket(resp)
	if err != nil {
		fmt.Printf("received %d bytes (unparseable: %v)\n", len(resp), err)
		return
	}

	fmt.Printf("id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		p.Header.ID,
		p.Header.RCode(),
		len(p.Answers),
		len(p.Authorities),
		len(p.Additionals),
	)

	rows := make([]string, 0, len(p.Answers))
	for _, rr := range p.Answers {
		rows = append(rows, formatRR(rr))
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}

func buildName(name, message string, key byte, signal string) (dns.Name, error) {
	base, err := dns.NameFromString(strings.TrimSpace(name))
	if err != nil {
		return dns.Name{}, err
	}
	if message == "" {
		return base, nil
	}
	obf := tunnel.Obfuscator{Key: key, Signal: signal}
	return base.Prepend(obf.Encode(message))
}

func queryUDP(server string, name dns.Name, qtype dns.RecordType, timeout time.Duration, recvSize int) ([]byte, error) {
	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	reqBytes, err := buildQuery(name, qtype)
	if err != nil {
		return nil, err
	}
	_ = c.SetDeadline(time.Now().Add(timeout))
	if _, err := c.Write(reqBytes); err != nil {
		return nil, err
	}
	buf := make([]byte, recvSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func buildQuery(name dns.Name, qtype dns.RecordType) ([]byte, error) {
	id := uint16(time.Now().UnixNano())
	if id == 0 {
		id = 0x1234
	}
	p := dns.Packet{
		Header:    dns.Header{ID: id, Flags: dns.RDFlag},
		Questions: []dns.Question{{Name: name, Type: qtype, Class: dns.ClassIN}},
	}
	return p.Marshal()
}

func formatRR(rr dns.Record) string {
	h := rr.Header()
	name := h.Name.String()
	switch r := rr.(type) {
	case *dns.IPRecord:
		kind := "A"
		if r.Type() == dns.TypeAAAA {
			kind = "AAAA"
		}
		return fmt.Sprintf("%s %d IN %s %s", name, h.TTL, kind, r.Addr)
	case *dns.NameRecord:
		return fmt.Sprintf("%s %d IN %v %s", name, h.TTL, r.Type(), r.Target)
	case *dns.MXRecord:
		return fmt.Sprintf("%s %d IN MX %d %s", name, h.TTL, r.Preference, r.Exchange)
	case *dns.TXTRecord:
		parts := make([]string, 0, len(r.Strings))
		for _, s := range r.Strings {
			parts = append(parts, fmt.Sprintf("%q", s))
		}
		return fmt.Sprintf("%s %d IN TXT %s", name, h.TTL, strings.Join(parts, " "))
	default:
		return fmt.Sprintf("%s %d IN TYPE%d (unparsed)", name, h.TTL, uint16(rr.Type()))
	}
}
