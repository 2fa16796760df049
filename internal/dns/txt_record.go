package dns

import "fmt"

// TXTRecord represents a text record (RFC 1035 Section 3.3.14): one or more
// length-prefixed character strings of up to 255 bytes each. The strings are
// opaque bytes; no character-set interpretation is applied.
type TXTRecord struct {
	H       RRHeader
	Strings [][]byte
}

// NewTXTRecord creates a new TXT record from the given character strings.
func NewTXTRecord(h RRHeader, strings ...[]byte) *TXTRecord {
	return &TXTRecord{H: h, Strings: strings}
}

// Type returns TypeTXT.
func (r *TXTRecord) Type() RecordType { return TypeTXT }

// Header returns the record header.
func (r *TXTRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *TXTRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals the character strings with their length prefixes.
func (r *TXTRecord) MarshalRData() ([]byte, error) {
	size := 0
	for _, s := range r.Strings {
		if len(s) > 255 {
			return nil, fmt.Errorf("%w: txt string of %d bytes", ErrInvalidRdLength, len(s))
		}
		size += 1 + len(s)
	}
	out := make([]byte, 0, size)
	for _, s := range r.Strings {
		out = append(out, byte(len(s)))
		out = append(out, s...)
	}
	return out, nil
}

// ParseTXTRData parses TXT record RDATA: length-prefixed segments until
// exactly rdlen bytes are consumed. A partial final segment is an error.
func ParseTXTRData(msg []byte, off *int, rdlen int) (*TXTRecord, error) {
	end := *off + rdlen
	strings := make([][]byte, 0, 1)
	for *off < end {
		l := int(msg[*off])
		*off++
		if *off+l > end {
			return nil, fmt.Errorf("%w: txt segment of %d bytes overruns rdata", ErrInvalidRdLength, l)
		}
		s := make([]byte, l)
		copy(s, msg[*off:*off+l])
		*off += l
		strings = append(strings, s)
	}
	return &TXTRecord{Strings: strings}, nil
}
