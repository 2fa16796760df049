package dns

import (
	"fmt"
	"net"
)

// IPRecord represents a DNS A or AAAA record containing an IP address.
//
// The record type is stored explicitly rather than derived from the address:
// an AAAA record may legitimately carry an IPv4-mapped address
// (::ffff:a.b.c.d) and must stay a 16-byte AAAA through a round trip.
type IPRecord struct {
	H    RRHeader
	T    RecordType
	Addr net.IP
}

// NewIPRecord creates a new IP record; the type is inferred from the address
// version (IPv4 → TypeA, IPv6 → TypeAAAA).
func NewIPRecord(h RRHeader, addr net.IP) *IPRecord {
	rt := TypeAAAA
	if addr.To4() != nil {
		rt = TypeA
	}
	return &IPRecord{H: h, T: rt, Addr: addr}
}

// NewAAAARecord creates an AAAA record, keeping the type even for addresses
// with an IPv4 form.
func NewAAAARecord(h RRHeader, addr net.IP) *IPRecord {
	return &IPRecord{H: h, T: TypeAAAA, Addr: addr}
}

// Type returns the record type. For records built as bare struct literals
// without a type, it falls back to inferring from the address.
func (r *IPRecord) Type() RecordType {
	if r.T != 0 {
		return r.T
	}
	if r.Addr.To4() != nil {
		return TypeA
	}
	return TypeAAAA
}

// Header returns the record header.
func (r *IPRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *IPRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals the IP address to wire format: 4 bytes for A,
// 16 bytes for AAAA.
func (r *IPRecord) MarshalRData() ([]byte, error) {
	if r.Type() == TypeAAAA {
		if ip6 := r.Addr.To16(); ip6 != nil {
			return []byte(ip6), nil
		}
		return nil, fmt.Errorf("%w: invalid IPv6 address", ErrInvalidRdLength)
	}
	if ip4 := r.Addr.To4(); ip4 != nil {
		return []byte(ip4), nil
	}
	return nil, fmt.Errorf("%w: invalid IPv4 address", ErrInvalidRdLength)
}

// ParseIPRData parses A or AAAA record RDATA from wire format. The RDATA
// must be exactly 4 bytes for A and 16 for AAAA (RFC 1035 Section 3.4.1,
// RFC 3596 Section 2.2).
func ParseIPRData(msg []byte, off *int, rdlen int, rt RecordType) (*IPRecord, error) {
	want := 4
	if rt == TypeAAAA {
		want = 16
	}
	if rdlen != want {
		return nil, fmt.Errorf("%w: %v record with %d-byte rdata, want %d", ErrInvalidRdLength, rt, rdlen, want)
	}
	b := make([]byte, rdlen)
	copy(b, msg[*off:*off+rdlen])
	*off += rdlen
	return &IPRecord{T: rt, Addr: net.IP(b)}, nil
}
