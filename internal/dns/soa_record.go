package dns

import (
	"encoding/binary"
	"fmt"
)

// SOARecord represents a Start of Authority record (RFC 1035 Section 3.3.13):
// the primary name server, the responsible mailbox, and five 32-bit zone
// timing parameters.
type SOARecord struct {
	H       RRHeader
	MName   Name   // Primary name server for the zone
	RName   Name   // Mailbox of the person responsible
	Serial  uint32 // Zone version number
	Refresh uint32 // Secondary refresh interval, seconds
	Retry   uint32 // Retry interval after a failed refresh
	Expire  uint32 // Upper limit before the zone is no longer authoritative
	Minimum uint32 // Minimum TTL for records in the zone
}

// Type returns TypeSOA.
func (r *SOARecord) Type() RecordType { return TypeSOA }

// Header returns the record header.
func (r *SOARecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *SOARecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals both names (uncompressed) and the five counters.
func (r *SOARecord) MarshalRData() ([]byte, error) {
	out, err := appendName(nil, r.MName, nil)
	if err != nil {
		return nil, err
	}
	out, err = appendName(out, r.RName, nil)
	if err != nil {
		return nil, err
	}
	var fixed [20]byte
	binary.BigEndian.PutUint32(fixed[0:4], r.Serial)
	binary.BigEndian.PutUint32(fixed[4:8], r.Refresh)
	binary.BigEndian.PutUint32(fixed[8:12], r.Retry)
	binary.BigEndian.PutUint32(fixed[12:16], r.Expire)
	binary.BigEndian.PutUint32(fixed[16:20], r.Minimum)
	return append(out, fixed[:]...), nil
}

// ParseSOARData parses SOA record RDATA from wire format.
func ParseSOARData(msg []byte, off *int, start, rdlen int) (*SOARecord, error) {
	mname, err := ParseName(msg, off)
	if err != nil {
		return nil, err
	}
	rname, err := ParseName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+20 > len(msg) {
		return nil, fmt.Errorf("%w: soa counters", ErrIncompleteBuffer)
	}
	r := &SOARecord{
		MName:   mname,
		RName:   rname,
		Serial:  binary.BigEndian.Uint32(msg[*off : *off+4]),
		Refresh: binary.BigEndian.Uint32(msg[*off+4 : *off+8]),
		Retry:   binary.BigEndian.Uint32(msg[*off+8 : *off+12]),
		Expire:  binary.BigEndian.Uint32(msg[*off+12 : *off+16]),
		Minimum: binary.BigEndian.Uint32(msg[*off+16 : *off+20]),
	}
	*off += 20
	if *off-start != rdlen {
		return nil, fmt.Errorf("%w: soa rdata declared %d bytes, consumed %d", ErrRdLengthMismatch, rdlen, *off-start)
	}
	return r, nil
}
