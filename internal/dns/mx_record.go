package dns

import (
	"encoding/binary"
	"fmt"
)

// MXRecord represents a mail exchange record (RFC 1035 Section 3.3.9):
// a 16-bit preference followed by the exchange host name.
type MXRecord struct {
	H          RRHeader
	Preference uint16
	Exchange   Name
}

// NewMXRecord creates a new MX record.
func NewMXRecord(h RRHeader, preference uint16, exchange Name) *MXRecord {
	return &MXRecord{H: h, Preference: preference, Exchange: exchange}
}

// Type returns TypeMX.
func (r *MXRecord) Type() RecordType { return TypeMX }

// Header returns the record header.
func (r *MXRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *MXRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals the preference and exchange name to wire format.
func (r *MXRecord) MarshalRData() ([]byte, error) {
	out := make([]byte, 2, 2+r.Exchange.WireLen())
	binary.BigEndian.PutUint16(out[0:2], r.Preference)
	return appendName(out, r.Exchange, nil)
}

// ParseMXRData parses MX record RDATA from wire format.
func ParseMXRData(msg []byte, off *int, start, rdlen int) (*MXRecord, error) {
	if *off+2 > len(msg) {
		return nil, fmt.Errorf("%w: mx preference", ErrIncompleteBuffer)
	}
	pref := binary.BigEndian.Uint16(msg[*off : *off+2])
	*off += 2
	exchange, err := ParseName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off-start != rdlen {
		return nil, fmt.Errorf("%w: mx rdata declared %d bytes, consumed %d", ErrRdLengthMismatch, rdlen, *off-start)
	}
	return &MXRecord{Preference: pref, Exchange: exchange}, nil
}
