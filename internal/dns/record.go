package dns

import (
	"encoding/binary"
	"fmt"

	"github.com/burrowdns/burrow/internal/helpers"
)

// RRHeader contains the preamble fields every resource record shares:
// owner name, class, and TTL. The record type lives on the concrete record
// implementation and the RDLENGTH is derived at encode time.
type RRHeader struct {
	Name  Name
	Class RecordClass
	TTL   int32 // Signed per RFC 1035 Section 3.2.1; negative is invalid.
}

// NewRRHeader creates a new resource record header.
func NewRRHeader(name Name, class RecordClass, ttl int32) RRHeader {
	return RRHeader{Name: name, Class: class, TTL: ttl}
}

// Record is the interface for DNS resource records.
//
// The implementations in this package form a closed set: IPRecord (A/AAAA),
// NameRecord (NS/CNAME/PTR), MXRecord, SOARecord, TXTRecord, and OpaqueRecord
// for everything else. Parse and encode sites dispatch exhaustively on the
// record type.
type Record interface {
	// Type returns the DNS record type.
	Type() RecordType

	// Header returns the record's preamble fields.
	Header() RRHeader

	// SetHeader sets the record's preamble fields.
	SetHeader(h RRHeader)

	// MarshalRData marshals the record-specific data (RDATA) to wire
	// format. RDATA-internal names are written uncompressed so the
	// RDLENGTH can be computed before the preamble is finalized.
	MarshalRData() ([]byte, error)
}

// ParseRecord parses a resource record from wire format.
// It advances *off past the parsed record on success.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := ParseName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+10 > len(msg) {
		return nil, fmt.Errorf("%w: record preamble", ErrIncompleteBuffer)
	}
	rrType := RecordType(binary.BigEndian.Uint16(msg[*off : *off+2]))
	rrClass := RecordClass(binary.BigEndian.Uint16(msg[*off+2 : *off+4]))
	ttl := int32(binary.BigEndian.Uint32(msg[*off+4 : *off+8]))
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10

	if ttl < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTTL, ttl)
	}
	start := *off
	if start+rdlen > len(msg) {
		return nil, fmt.Errorf("%w: rdata of %d bytes", ErrIncompleteBuffer, rdlen)
	}

	r, err := parseRData(rrType, msg, off, start, rdlen)
	if err != nil {
		return nil, err
	}
	r.SetHeader(RRHeader{Name: name, Class: rrClass, TTL: ttl})
	return r, nil
}

// parseRData parses RDATA into a Record based on record type.
//
// Name-bearing RDATA (NS, CNAME, PTR, MX, SOA) may use compression pointers
// into the whole message, not just the record, so those decoders receive the
// full buffer. Whatever they consume must equal rdlen exactly.
func parseRData(rt RecordType, msg []byte, off *int, start, rdlen int) (Record, error) {
	switch rt {
	case TypeA, TypeAAAA:
		return ParseIPRData(msg, off, rdlen, rt)
	case TypeNS, TypeCNAME, TypePTR:
		return ParseNameRData(msg, off, start, rdlen, rt)
	case TypeMX:
		return ParseMXRData(msg, off, start, rdlen)
	case TypeSOA:
		return ParseSOARData(msg, off, start, rdlen)
	case TypeTXT:
		return ParseTXTRData(msg, off, rdlen)
	default:
		// Unknown record types are carried verbatim so they survive a
		// round trip without interpretation.
		return ParseOpaqueRData(msg, off, rdlen, rt)
	}
}

// MarshalRecord converts a Record to wire-format bytes without compressing
// the owner name. Records inside a full message go through Packet.Marshal.
func MarshalRecord(r Record) ([]byte, error) {
	return appendRecord(nil, r, nil)
}

// appendRecord encodes a record onto out, compressing the owner name against
// tbl. The RDLENGTH is computed from the marshaled RDATA.
func appendRecord(out []byte, r Record, tbl map[string]int) ([]byte, error) {
	rdata, err := r.MarshalRData()
	if err != nil {
		return nil, err
	}
	if len(rdata) > 65535 {
		return nil, fmt.Errorf("%w: rdata of %d bytes", ErrInvalidRdLength, len(rdata))
	}
	h := r.Header()
	if h.TTL < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTTL, h.TTL)
	}
	out, err = appendName(out, h.Name, tbl)
	if err != nil {
		return nil, err
	}
	var fixed [10]byte
	binary.BigEndian.PutUint16(fixed[0:2], uint16(r.Type()))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(h.Class))
	binary.BigEndian.PutUint32(fixed[4:8], uint32(h.TTL))
	binary.BigEndian.PutUint16(fixed[8:10], helpers.ClampIntToUint16(len(rdata)))
	out = append(out, fixed[:]...)
	return append(out, rdata...), nil
}
