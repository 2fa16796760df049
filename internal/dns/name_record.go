package dns

import "fmt"

// NameRecord represents DNS records whose RDATA is a single domain name
// (NS, CNAME, PTR).
type NameRecord struct {
	H      RRHeader
	T      RecordType
	Target Name
}

// NewNameRecord creates a new name-based record (NS, CNAME, or PTR).
func NewNameRecord(h RRHeader, rt RecordType, target Name) *NameRecord {
	return &NameRecord{H: h, T: rt, Target: target}
}

// NewCNAMERecord creates a new CNAME record.
func NewCNAMERecord(h RRHeader, target Name) *NameRecord {
	return NewNameRecord(h, TypeCNAME, target)
}

// NewNSRecord creates a new NS record.
func NewNSRecord(h RRHeader, target Name) *NameRecord {
	return NewNameRecord(h, TypeNS, target)
}

// NewPTRRecord creates a new PTR record.
func NewPTRRecord(h RRHeader, target Name) *NameRecord {
	return NewNameRecord(h, TypePTR, target)
}

// Type returns the record type (NS, CNAME, or PTR).
func (r *NameRecord) Type() RecordType { return r.T }

// Header returns the record header.
func (r *NameRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *NameRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals the target name to wire format, uncompressed.
func (r *NameRecord) MarshalRData() ([]byte, error) {
	return appendName(nil, r.Target, nil)
}

// ParseNameRData parses NS, CNAME, or PTR record RDATA from wire format.
// The embedded name may point anywhere earlier in the message; the bytes
// consumed inside the RDATA window must still equal rdlen exactly.
func ParseNameRData(msg []byte, off *int, start, rdlen int, rt RecordType) (*NameRecord, error) {
	n, err := ParseName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off-start != rdlen {
		return nil, fmt.Errorf("%w: %v rdata declared %d bytes, consumed %d", ErrRdLengthMismatch, rt, rdlen, *off-start)
	}
	return &NameRecord{T: rt, Target: n}, nil
}
