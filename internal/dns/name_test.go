package dns_test

import (
	"strings"
	"testing"

	"github.com/burrowdns/burrow/internal/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameFromString_Valid(t *testing.T) {
	tests := []struct {
		input  string
		labels int
		str    string
	}{
		{"example.com", 2, "example.com"},
		{"example.com.", 2, "example.com"},
		{"mail.example.com", 3, "mail.example.com"},
		{"", 0, "."},
		{".", 0, "."},
		{"localhost", 1, "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := dns.NameFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.labels, n.LabelCount())
			assert.Equal(t, tt.str, n.String())
		})
	}
}

func TestNameFromString_Invalid(t *testing.T) {
	t.Run("empty label", func(t *testing.T) {
		_, err := dns.NameFromString("example..com")
		require.ErrorIs(t, err, dns.ErrInvalidName)
	})

	t.Run("label too long", func(t *testing.T) {
		_, err := dns.NameFromString(strings.Repeat("a", 64) + ".com")
		require.ErrorIs(t, err, dns.ErrInvalidName)
	})

	t.Run("label at limit is fine", func(t *testing.T) {
		_, err := dns.NameFromString(strings.Repeat("a", 63) + ".com")
		require.NoError(t, err)
	})

	t.Run("name too long", func(t *testing.T) {
		// 4 labels of 63 bytes encode to 257 bytes with the terminator.
		long := strings.Repeat("a", 63)
		_, err := dns.NameFromString(strings.Join([]string{long, long, long, long}, "."))
		require.ErrorIs(t, err, dns.ErrNameTooLong)
	})
}

func TestName_EqualIsCaseInsensitive(t *testing.T) {
	a, err := dns.NameFromString("Example.COM")
	require.NoError(t, err)
	b, err := dns.NameFromString("example.com")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	// Original spelling is preserved.
	assert.Equal(t, "Example.COM", a.String())
}

func TestName_IsSubdomainOf(t *testing.T) {
	base, err := dns.NameFromString("tunnel.example.com")
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{"msg.tunnel.example.com", true},
		{"a.b.tunnel.example.com", true},
		{"MSG.Tunnel.Example.COM", true},
		{"tunnel.example.com", true}, // a name is a subdomain of itself
		{"example.com", false},
		{"other.example.com", false},
		{"tunnel.example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := dns.NameFromString(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.IsSubdomainOf(base))
		})
	}
}

func TestName_Prepend(t *testing.T) {
	base, err := dns.NameFromString("example.com")
	require.NoError(t, err)

	n, err := base.Prepend("www")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", n.String())
	assert.Equal(t, 2, base.LabelCount(), "base should be unchanged")

	t.Run("label may contain separator bytes", func(t *testing.T) {
		n, err := base.Prepend("a.b")
		require.NoError(t, err)
		assert.Equal(t, 3, n.LabelCount())
		assert.Equal(t, "a.b", n.Label(0))
	})

	t.Run("rejects empty label", func(t *testing.T) {
		_, err := base.Prepend("")
		require.ErrorIs(t, err, dns.ErrInvalidName)
	})

	t.Run("rejects oversized label", func(t *testing.T) {
		_, err := base.Prepend(strings.Repeat("x", 64))
		require.ErrorIs(t, err, dns.ErrInvalidName)
	})
}

// =============================================================================
// Wire decoding
// =============================================================================

func TestParseName_Simple(t *testing.T) {
	// 5 hello 5 world 3 com 0
	msg := []byte{5, 'h', 'e', 'l', 'l', 'o', 5, 'w', 'o', 'r', 'l', 'd', 3, 'c', 'o', 'm', 0}
	off := 0
	n, err := dns.ParseName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "hello.world.com", n.String())
	assert.Equal(t, len(msg), off, "offset should land past the terminator")
}

func TestParseName_RootName(t *testing.T) {
	msg := []byte{0}
	off := 0
	n, err := dns.ParseName(msg, &off)
	require.NoError(t, err)
	assert.True(t, n.IsRoot())
	assert.Equal(t, 1, off)
}

func TestParseName_BackwardPointer(t *testing.T) {
	// Name at offset 0: example.com. Name at offset 13: www + pointer to 0.
	msg := []byte{
		7, 'e', 'x', 'a', 'm', 'p', 'l', 'e', 3, 'c', 'o', 'm', 0,
		3, 'w', 'w', 'w', 0xC0, 0x00,
	}
	off := 13
	n, err := dns.ParseName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", n.String())
	assert.Equal(t, 19, off, "offset should advance past the 2 pointer bytes")
}

func TestParseName_ForwardPointerRejected(t *testing.T) {
	// A pointer at offset 0 referencing offset 3 (forward).
	msg := []byte{0xC0, 0x03, 0x00, 3, 'c', 'o', 'm', 0}
	off := 0
	_, err := dns.ParseName(msg, &off)
	require.ErrorIs(t, err, dns.ErrPointerOutOfBounds)
}

func TestParseName_SelfPointerRejected(t *testing.T) {
	msg := []byte{3, 'f', 'o', 'o', 0xC0, 0x04}
	off := 4
	_, err := dns.ParseName(msg, &off)
	require.ErrorIs(t, err, dns.ErrPointerOutOfBounds)
}

func TestParseName_ReservedPrefixRejected(t *testing.T) {
	for _, b := range []byte{0x40, 0x80, 0x7F, 0xBF} {
		msg := []byte{b, 'x', 0}
		off := 0
		_, err := dns.ParseName(msg, &off)
		assert.ErrorIs(t, err, dns.ErrInvalidLabel, "prefix %#02x", b)
	}
}

func TestParseName_Truncated(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
	}{
		{"empty buffer", []byte{}},
		{"missing terminator", []byte{3, 'c', 'o', 'm'}},
		{"label overruns buffer", []byte{5, 'a', 'b'}},
		{"pointer cut short", []byte{3, 'f', 'o', 'o', 0xC0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := 0
			_, err := dns.ParseName(tt.msg, &off)
			require.ErrorIs(t, err, dns.ErrIncompleteBuffer)
		})
	}
}

func TestParseName_TooLongOnWire(t *testing.T) {
	// Five 63-byte labels: 320 bytes encoded, past the 255-byte limit.
	var msg []byte
	for i := 0; i < 5; i++ {
		msg = append(msg, 63)
		msg = append(msg, []byte(strings.Repeat("a", 63))...)
	}
	msg = append(msg, 0)

	off := 0
	_, err := dns.ParseName(msg, &off)
	require.ErrorIs(t, err, dns.ErrNameTooLong)
}

func TestParseName_PointerChainWithinBounds(t *testing.T) {
	// c -> b -> a, each hop strictly backward.
	msg := []byte{
		1, 'a', 0, // offset 0
		1, 'b', 0xC0, 0x00, // offset 3
		1, 'c', 0xC0, 0x03, // offset 7
	}
	off := 7
	n, err := dns.ParseName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "c.b.a", n.String())
}
