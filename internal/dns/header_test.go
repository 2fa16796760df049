package dns_test

import (
	"testing"

	"github.com/burrowdns/burrow/internal/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_MarshalAndParse(t *testing.T) {
	h := dns.Header{
		ID:      0xABCD,
		Flags:   dns.QRFlag | dns.AAFlag | dns.RDFlag | uint16(dns.RCodeNXDomain),
		QDCount: 1,
		ANCount: 2,
		NSCount: 3,
		ARCount: 4,
	}

	b := h.Marshal()
	require.Len(t, b, dns.HeaderSize)

	off := 0
	parsed, err := dns.ParseHeader(b, &off)
	require.NoError(t, err)
	assert.Equal(t, h, parsed)
	assert.Equal(t, dns.HeaderSize, off)
}

func TestHeader_MarshalIsBigEndian(t *testing.T) {
	h := dns.Header{ID: 0x1234, Flags: 0x0100, QDCount: 1}
	b := h.Marshal()
	assert.Equal(t, []byte{0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, b)
}

func TestHeader_Accessors(t *testing.T) {
	query := dns.Header{Flags: dns.RDFlag}
	assert.True(t, query.IsQuery())
	assert.False(t, query.IsResponse())
	assert.True(t, query.RecursionDesired())
	assert.False(t, query.Authoritative())

	resp := dns.Header{Flags: dns.QRFlag | dns.AAFlag | dns.TCFlag | dns.RAFlag | uint16(dns.RCodeRefused)}
	assert.True(t, resp.IsResponse())
	assert.True(t, resp.Authoritative())
	assert.True(t, resp.Truncated())
	assert.True(t, resp.RecursionAvailable())
	assert.Equal(t, dns.RCodeRefused, resp.RCode())
}

func TestHeader_OpcodeExtraction(t *testing.T) {
	// Opcode 2 (status) sits at bits 14-11.
	h := dns.Header{Flags: 2 << 11}
	assert.Equal(t, uint16(2), h.Opcode())
}

func TestParseHeader_ShortBuffer(t *testing.T) {
	for n := 0; n < dns.HeaderSize; n++ {
		off := 0
		_, err := dns.ParseHeader(make([]byte, n), &off)
		require.ErrorIs(t, err, dns.ErrIncompleteBuffer, "length %d", n)
	}
}

func TestHeader_ZBitSurvivesRoundTrip(t *testing.T) {
	h := dns.Header{Flags: dns.ZFlag}
	off := 0
	parsed, err := dns.ParseHeader(h.Marshal(), &off)
	require.NoError(t, err)
	assert.Equal(t, dns.ZFlag, parsed.Flags&dns.ZFlag)
}
