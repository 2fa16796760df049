package dns

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Wire-format limits for domain names (RFC 1035 Section 3.1).
const (
	MaxLabelLen    = 63  // Maximum bytes per label
	MaxNameWireLen = 255 // Maximum encoded name length, terminator included

	// maxPointerHops bounds the number of compression pointer hops per
	// name. Backward-only pointers cannot cycle, but crafted messages can
	// still chain excessive indirection; 128 hops is far beyond anything a
	// legitimate 64KiB message needs.
	maxPointerHops = 128

	// maxPointerTarget is the largest offset a 14-bit compression pointer
	// can reference. Names written past it are not registered for reuse.
	maxPointerTarget = 0x3FFF
)

// Name is a domain name: an ordered sequence of labels, most specific first.
//
// Labels are stored case-preserving, exactly as they appeared on the wire or
// were supplied by the caller; Equal and IsSubdomainOf compare ASCII
// case-insensitively per RFC 4343. A Name is immutable once constructed.
//
// The zero value is the root name (no labels).
type Name struct {
	labels []string
}

// NameFromString builds a Name from a dotted string like "mail.example.com".
// Trailing dots are accepted. An empty string or "." yields the root name.
func NameFromString(s string) (Name, error) {
	for len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "" {
		return Name{}, nil
	}
	labels := strings.Split(s, ".")
	wire := 1
	for _, l := range labels {
		if l == "" {
			return Name{}, fmt.Errorf("%w: empty label in %q", ErrInvalidName, s)
		}
		if len(l) > MaxLabelLen {
			return Name{}, fmt.Errorf("%w: label %q exceeds %d bytes", ErrInvalidName, l, MaxLabelLen)
		}
		wire += 1 + len(l)
	}
	if wire > MaxNameWireLen {
		return Name{}, fmt.Errorf("%w: %d bytes encoded", ErrNameTooLong, wire)
	}
	return Name{labels: labels}, nil
}

// Prepend returns a new Name with label added as the most specific label.
// The label is taken verbatim, so it may contain bytes that would be
// separators in the dotted form.
func (n Name) Prepend(label string) (Name, error) {
	if label == "" || len(label) > MaxLabelLen {
		return Name{}, fmt.Errorf("%w: label %q", ErrInvalidName, label)
	}
	if n.WireLen()+1+len(label) > MaxNameWireLen {
		return Name{}, fmt.Errorf("%w: %d bytes encoded", ErrNameTooLong, n.WireLen()+1+len(label))
	}
	labels := make([]string, 0, len(n.labels)+1)
	labels = append(labels, label)
	labels = append(labels, n.labels...)
	return Name{labels: labels}, nil
}

// String returns the dotted representation without a trailing dot.
// The root name renders as ".".
func (n Name) String() string {
	if len(n.labels) == 0 {
		return "."
	}
	return strings.Join(n.labels, ".")
}

// IsRoot reports whether the name has no labels.
func (n Name) IsRoot() bool { return len(n.labels) == 0 }

// LabelCount returns the number of labels in the name.
func (n Name) LabelCount() int { return len(n.labels) }

// Label returns the i-th label, counting from the most specific. The label is
// returned verbatim, case preserved.
func (n Name) Label(i int) string { return n.labels[i] }

// WireLen returns the uncompressed encoded size of the name in bytes,
// terminator included.
func (n Name) WireLen() int {
	size := 1
	for _, l := range n.labels {
		size += 1 + len(l)
	}
	return size
}

// Equal compares two names ASCII case-insensitively (RFC 4343).
func (n Name) Equal(other Name) bool {
	if len(n.labels) != len(other.labels) {
		return false
	}
	for i := range n.labels {
		if !strings.EqualFold(n.labels[i], other.labels[i]) {
			return false
		}
	}
	return true
}

// IsSubdomainOf reports whether n is equal to or below parent, comparing
// labels case-insensitively. Every name is a subdomain of the root.
func (n Name) IsSubdomainOf(parent Name) bool {
	if len(parent.labels) > len(n.labels) {
		return false
	}
	offset := len(n.labels) - len(parent.labels)
	for i := range parent.labels {
		if !strings.EqualFold(n.labels[offset+i], parent.labels[i]) {
			return false
		}
	}
	return true
}

// canonical returns the lowercase dotted form used as a compression-table
// and comparison key.
func (n Name) canonical() string {
	return canonicalLabels(n.labels)
}

func canonicalLabels(labels []string) string {
	return strings.ToLower(strings.Join(labels, "."))
}

// ParseName decodes a possibly-compressed domain name from msg at *off,
// advancing *off past the encoded name (including any pointer bytes).
//
// Compression pointers (RFC 1035 Section 4.1.4) are the two high bits of a
// length byte set (11xxxxxx); the 14-bit value is an offset from the start of
// the message. Pointers may only reference strictly earlier offsets, which
// rules out forward references and self-loops; a hop counter additionally
// bounds crafted indirection chains.
func ParseName(msg []byte, off *int) (Name, error) {
	labels := make([]string, 0, 6)
	pos := *off
	wire := 1 // terminator byte
	hops := 0
	jumped := false

	for {
		if pos < 0 || pos >= len(msg) {
			return Name{}, fmt.Errorf("%w: name runs past end of message", ErrIncompleteBuffer)
		}
		b := msg[pos]
		switch {
		case b == 0:
			if !jumped {
				*off = pos + 1
			}
			return Name{labels: labels}, nil

		case b&0xC0 == 0xC0:
			if pos+2 > len(msg) {
				return Name{}, fmt.Errorf("%w: truncated compression pointer", ErrIncompleteBuffer)
			}
			ptr := int(binary.BigEndian.Uint16(msg[pos:pos+2]) & maxPointerTarget)
			if ptr >= pos {
				return Name{}, fmt.Errorf("%w: pointer to offset %d at position %d", ErrPointerOutOfBounds, ptr, pos)
			}
			hops++
			if hops > maxPointerHops {
				return Name{}, fmt.Errorf("%w: more than %d pointer hops", ErrPointerOutOfBounds, maxPointerHops)
			}
			if !jumped {
				*off = pos + 2
				jumped = true
			}
			pos = ptr

		case b&0xC0 != 0:
			// 01xxxxxx and 10xxxxxx are reserved (RFC 1035 Section 4.1.4).
			return Name{}, fmt.Errorf("%w: reserved length prefix %#02x", ErrInvalidLabel, b)

		default:
			l := int(b)
			if pos+1+l > len(msg) {
				return Name{}, fmt.Errorf("%w: label overruns message", ErrIncompleteBuffer)
			}
			wire += 1 + l
			if wire > MaxNameWireLen {
				return Name{}, fmt.Errorf("%w: %d bytes decoded", ErrNameTooLong, wire)
			}
			labels = append(labels, string(msg[pos+1:pos+1+l]))
			pos += 1 + l
		}
	}
}

// appendName appends the wire encoding of name to out, compressing against
// suffixes already registered in tbl.
//
// tbl maps the canonical form of each already-written name suffix to the
// message offset where it starts; out must therefore have grown from offset 0
// of the message being built. The longest matching suffix is replaced by a
// 2-byte pointer; the labels preceding it are written literally and every new
// suffix is registered for reuse by later names. A nil tbl disables
// compression entirely.
func appendName(out []byte, name Name, tbl map[string]int) ([]byte, error) {
	if name.WireLen() > MaxNameWireLen {
		return nil, fmt.Errorf("%w: %d bytes encoded", ErrNameTooLong, name.WireLen())
	}
	for i, label := range name.labels {
		if label == "" || len(label) > MaxLabelLen {
			return nil, fmt.Errorf("%w: label %q", ErrInvalidName, label)
		}
		if tbl != nil {
			key := canonicalLabels(name.labels[i:])
			if off, ok := tbl[key]; ok {
				return append(out, 0xC0|byte(off>>8), byte(off)), nil
			}
			if here := len(out); here <= maxPointerTarget {
				tbl[key] = here
			}
		}
		out = append(out, byte(len(label)))
		out = append(out, label...)
	}
	return append(out, 0), nil
}
